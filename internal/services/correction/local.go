// File: internal/services/correction/local.go
package correction

import (
	"regexp"
	"strings"
	"unicode"
)

// Rule-based corrector used while the remote model is cooling down. It is
// deterministic and idempotent: running it on already-correct text changes
// nothing and reports no errors.

var (
	solitaryIRegex  = regexp.MustCompile(`\bi\b`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

const noErrorsExplanation = "No obvious errors found."

// CorrectLocally applies the deterministic grammar rules and returns the
// corrected text plus an explanation listing what changed.
func CorrectLocally(text string) Result {
	original := strings.TrimSpace(text)
	corrected := original
	var fixes []string

	if collapsed := whitespaceRegex.ReplaceAllString(corrected, " "); collapsed != corrected {
		corrected = collapsed
		fixes = append(fixes, "Collapsed repeated whitespace.")
	}

	if replaced := capitalizeSolitaryI(corrected); replaced != corrected {
		corrected = replaced
		fixes = append(fixes, `Capitalized the pronoun "I".`)
	}

	if capitalized := capitalizeFirst(corrected); capitalized != corrected {
		corrected = capitalized
		fixes = append(fixes, "Capitalized the first letter of the sentence.")
	}

	if terminated := ensureTerminalPunctuation(corrected); terminated != corrected {
		corrected = terminated
		fixes = append(fixes, "Added terminal punctuation.")
	}

	explanation := noErrorsExplanation
	if len(fixes) > 0 {
		explanation = strings.Join(fixes, " ")
	}

	return Result{
		CorrectedText: corrected,
		Explanation:   explanation,
	}
}

func capitalizeSolitaryI(text string) string {
	return solitaryIRegex.ReplaceAllString(text, "I")
}

func capitalizeFirst(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func ensureTerminalPunctuation(text string) string {
	if text == "" {
		return text
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return text
	}
	return text + "."
}
