// File: internal/services/correction/local_test.go
package correction

import (
	"strings"
	"testing"
)

func TestCorrectLocallyCapitalizesAndPunctuates(t *testing.T) {
	got := CorrectLocally("i am happy")

	if got.CorrectedText != "I am happy." {
		t.Fatalf("corrected = %q, want %q", got.CorrectedText, "I am happy.")
	}
	if !strings.Contains(got.Explanation, `pronoun "I"`) {
		t.Errorf("explanation %q missing pronoun fix", got.Explanation)
	}
	if !strings.Contains(got.Explanation, "terminal punctuation") {
		t.Errorf("explanation %q missing punctuation fix", got.Explanation)
	}
}

func TestCorrectLocallyIdempotentOnCorrectInput(t *testing.T) {
	got := CorrectLocally("I am fine.")

	if got.CorrectedText != "I am fine." {
		t.Fatalf("corrected = %q, want input unchanged", got.CorrectedText)
	}
	if got.Explanation != "No obvious errors found." {
		t.Errorf("explanation = %q, want no-errors text", got.Explanation)
	}

	again := CorrectLocally(got.CorrectedText)
	if again != got {
		t.Errorf("second pass changed result: %+v vs %+v", again, got)
	}
}

func TestCorrectLocallyCollapsesWhitespace(t *testing.T) {
	got := CorrectLocally("I  like   tea.")

	if got.CorrectedText != "I like tea." {
		t.Fatalf("corrected = %q, want %q", got.CorrectedText, "I like tea.")
	}
	if !strings.Contains(got.Explanation, "whitespace") {
		t.Errorf("explanation %q missing whitespace fix", got.Explanation)
	}
}

func TestCorrectLocallyHandlesContractionsAndRepeats(t *testing.T) {
	got := CorrectLocally("i think i i'm ready")

	if got.CorrectedText != "I think I I'm ready." {
		t.Fatalf("corrected = %q", got.CorrectedText)
	}
}

func TestCorrectLocallyKeepsExistingTerminalPunctuation(t *testing.T) {
	for _, text := range []string{"Really?", "Stop!", "Fine."} {
		if got := CorrectLocally(text); got.CorrectedText != text {
			t.Errorf("CorrectLocally(%q) = %q, want unchanged", text, got.CorrectedText)
		}
	}
}
