// File: internal/services/reply/service.go
package reply

import (
	"context"
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

const systemPrompt = `You are a friendly English conversation partner helping a learner practice spoken English.
Reply to the learner in one or two short, natural sentences. Ask a follow-up question when it keeps the conversation going. Reply with plain text only.`

// Service generates the conversational reply for a corrected utterance.
// Its cool-down gate is independent of the correction step's gate.
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

// Reply returns the conversational response to one utterance, degrading to
// the canned table on provider failure. Only quota/rate-limit failures arm
// the cool-down; auth failures are returned to the caller.
func (s *Service) Reply(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ai.AIError{Type: ai.ErrTypeValidation, Operation: "reply", Message: "text is empty"}
	}

	if s.gate.Active() {
		s.logger.Debug("reply cool-down active, using canned responses")
		return ReplyLocally(text), nil
	}

	response, err := s.provider.GetCompletion(ctx, systemPrompt, text)
	if err != nil {
		if ai.IsAuthError(err) {
			return "", err
		}
		if ai.IsQuotaError(err) {
			s.gate.Arm()
			s.logger.Warn("reply quota exhausted, entering cool-down", "error", err)
		} else {
			s.logger.Warn("reply provider failed, using canned responses", "error", err)
		}
		return ReplyLocally(text), nil
	}

	return strings.TrimSpace(response), nil
}
