// File: internal/services/correction/service.go
package correction

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/ai"
)

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Result is one corrected utterance with the explanation of what changed.
type Result struct {
	CorrectedText string
	Explanation   string
}

const systemPrompt = `You are an English teacher correcting a learner's spoken sentence.
Respond with a JSON object only: {"corrected": "<corrected sentence>", "explanation": "<short explanation of each fix, or 'No obvious errors found.'>"}`

// Service corrects learner utterances with the remote model, falling back to
// the deterministic local rules during the quota cool-down window.
type Service struct {
	provider ai.CompletionProvider
	gate     *ai.FallbackGate
	logger   Logger
}

func NewService(provider ai.CompletionProvider, cooldown time.Duration, logger Logger) *Service {
	return &Service{
		provider: provider,
		gate:     ai.NewFallbackGate(cooldown),
		logger:   logger,
	}
}

// Gate exposes the cool-down gate, for tests.
func (s *Service) Gate() *ai.FallbackGate { return s.gate }

// Correct returns the corrected text for one utterance. Quota and rate-limit
// failures arm the cool-down and degrade to the local corrector; upstream
// auth failures are returned to the caller; any other provider failure
// degrades to the local corrector without arming the gate.
func (s *Service) Correct(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, &ai.AIError{Type: ai.ErrTypeValidation, Operation: "correction", Message: "text is empty"}
	}

	if s.gate.Active() {
		s.logger.Debug("correction cool-down active, using local rules")
		return CorrectLocally(text), nil
	}

	raw, err := s.provider.GetCompletion(ctx, systemPrompt, text)
	if err != nil {
		if ai.IsAuthError(err) {
			return Result{}, err
		}
		if ai.IsQuotaError(err) {
			s.gate.Arm()
			s.logger.Warn("correction quota exhausted, entering cool-down", "error", err)
		} else {
			s.logger.Warn("correction provider failed, using local rules", "error", err)
		}
		return CorrectLocally(text), nil
	}

	result, ok := parseModelResult(raw)
	if !ok {
		s.logger.Warn("correction response unparseable, using local rules", "response_length", len(raw))
		return CorrectLocally(text), nil
	}
	return result, nil
}

// parseModelResult extracts the corrected/explanation pair from the model
// output, tolerating markdown fences around the JSON.
func parseModelResult(raw string) (Result, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var parsed struct {
		Corrected   string `json:"corrected"`
		Explanation string `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return Result{}, false
	}
	if parsed.Corrected == "" {
		return Result{}, false
	}
	if parsed.Explanation == "" {
		parsed.Explanation = noErrorsExplanation
	}
	return Result{CorrectedText: parsed.Corrected, Explanation: parsed.Explanation}, true
}
