// File: internal/services/message_service_test.go
package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/ai"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/correction"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/reply"
)

type scriptedProvider struct {
	responses map[string]string
	err       error
	calls     int
}

func (f *scriptedProvider) GetCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if resp, ok := f.responses[userPrompt]; ok {
		return resp, nil
	}
	return "That sounds nice!", nil
}

func (f *scriptedProvider) HealthCheck(ctx context.Context) error { return nil }

func (f *scriptedProvider) GetStatus(ctx context.Context) ai.ProviderStatus {
	return ai.ProviderStatus{IsHealthy: true}
}

func newTestMessageService(t *testing.T, provider ai.CompletionProvider) *MessageService {
	t.Helper()
	logger := &NoOpLogger{}
	svc, err := NewMessageService(
		correction.NewService(provider, 5*time.Minute, logger),
		reply.NewService(provider, 5*time.Minute, logger),
		logger,
	)
	require.NoError(t, err)
	return svc
}

func TestProcessRunsCorrectionThenReply(t *testing.T) {
	provider := &scriptedProvider{responses: map[string]string{
		"i am happy":  `{"corrected": "I am happy.", "explanation": "Capitalized the pronoun."}`,
		"I am happy.": "Wonderful! What made your day so good?",
	}}
	svc := newTestMessageService(t, provider)

	got, err := svc.Process(context.Background(), "i am happy", "sess-1")
	require.NoError(t, err)

	assert.Equal(t, "i am happy", got.Transcription)
	assert.Equal(t, "I am happy.", got.CorrectedText)
	assert.Equal(t, "Wonderful! What made your day so good?", got.AIResponseText)
	assert.Equal(t, "", got.AIResponseAudio)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Contains(t, got.ExplanationHTML, "<p>")
}

func TestProcessMintsSessionIDWhenAbsent(t *testing.T) {
	svc := newTestMessageService(t, &scriptedProvider{err: &ai.AIError{Type: ai.ErrTypeQuota, Operation: "completion", Message: "quota"}})

	got, err := svc.Process(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.NotEmpty(t, got.SessionID)

	again, err := svc.Process(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.NotEqual(t, got.SessionID, again.SessionID)
}

func TestProcessRejectsEmptyText(t *testing.T) {
	svc := newTestMessageService(t, &scriptedProvider{})

	_, err := svc.Process(context.Background(), "   \n", "sess")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestProcessDegradesFullyLocalOnQuota(t *testing.T) {
	provider := &scriptedProvider{err: &ai.AIError{Type: ai.ErrTypeQuota, Operation: "completion", Message: "quota"}}
	svc := newTestMessageService(t, provider)

	got, err := svc.Process(context.Background(), "hello   there", "sess")
	require.NoError(t, err)

	assert.Equal(t, "Hello there.", got.CorrectedText)
	assert.True(t, strings.Contains(got.AIResponseText, "Hello!"))

	// Both gates armed independently: one remote attempt per step.
	calls := provider.calls
	_, err = svc.Process(context.Background(), "hello again", "sess")
	require.NoError(t, err)
	assert.Equal(t, calls, provider.calls)
}
