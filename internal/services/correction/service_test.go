// File: internal/services/correction/service_test.go
package correction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/ai"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

type fakeProvider struct {
	calls    int
	response string
	err      error
}

func (f *fakeProvider) GetCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeProvider) HealthCheck(ctx context.Context) error { return nil }

func (f *fakeProvider) GetStatus(ctx context.Context) ai.ProviderStatus {
	return ai.ProviderStatus{IsHealthy: true}
}

func quotaErr() error {
	return &ai.AIError{Type: ai.ErrTypeQuota, Operation: "completion", Message: "insufficient quota"}
}

func TestCorrectUsesModelResult(t *testing.T) {
	provider := &fakeProvider{response: `{"corrected": "I am happy.", "explanation": "Capitalized the pronoun."}`}
	svc := NewService(provider, 5*time.Minute, noopLogger{})

	got, err := svc.Correct(context.Background(), "i am happy")
	require.NoError(t, err)
	assert.Equal(t, "I am happy.", got.CorrectedText)
	assert.Equal(t, "Capitalized the pronoun.", got.Explanation)
}

func TestCorrectParsesFencedJSON(t *testing.T) {
	provider := &fakeProvider{response: "```json\n{\"corrected\": \"I am fine.\", \"explanation\": \"ok\"}\n```"}
	svc := NewService(provider, 5*time.Minute, noopLogger{})

	got, err := svc.Correct(context.Background(), "i am fine")
	require.NoError(t, err)
	assert.Equal(t, "I am fine.", got.CorrectedText)
}

func TestQuotaErrorArmsCooldownAndFallsBack(t *testing.T) {
	provider := &fakeProvider{err: quotaErr()}
	svc := NewService(provider, 5*time.Minute, noopLogger{})

	got, err := svc.Correct(context.Background(), "i am happy")
	require.NoError(t, err)
	assert.Equal(t, "I am happy.", got.CorrectedText)
	assert.Equal(t, 1, provider.calls)

	// Inside the window no remote call happens, for any input.
	for _, text := range []string{"i am happy", "she go home", "what time is it"} {
		local, err := svc.Correct(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, CorrectLocally(text), local)
	}
	assert.Equal(t, 1, provider.calls)
}

func TestCooldownExpiryRetriesRemote(t *testing.T) {
	provider := &fakeProvider{err: quotaErr()}
	svc := NewService(provider, 5*time.Minute, noopLogger{})

	now := time.Now()
	svc.Gate().SetClock(func() time.Time { return now })

	_, err := svc.Correct(context.Background(), "i am happy")
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)

	now = now.Add(5*time.Minute + time.Second)
	provider.err = nil
	provider.response = `{"corrected": "I am happy.", "explanation": "ok"}`

	_, err = svc.Correct(context.Background(), "i am happy")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestAuthErrorEscapes(t *testing.T) {
	provider := &fakeProvider{err: &ai.AIError{Type: ai.ErrTypeAuth, Operation: "completion", Message: "bad key"}}
	svc := NewService(provider, 5*time.Minute, noopLogger{})

	_, err := svc.Correct(context.Background(), "i am happy")
	require.Error(t, err)
	assert.True(t, ai.IsAuthError(err))
	assert.False(t, svc.Gate().Active())
}

func TestOtherProviderErrorFallsBackWithoutArming(t *testing.T) {
	provider := &fakeProvider{err: ai.NewProviderError("completion", "timeout", nil)}
	svc := NewService(provider, 5*time.Minute, noopLogger{})

	got, err := svc.Correct(context.Background(), "i am happy")
	require.NoError(t, err)
	assert.Equal(t, "I am happy.", got.CorrectedText)
	assert.False(t, svc.Gate().Active())

	_, _ = svc.Correct(context.Background(), "i am happy")
	assert.Equal(t, 2, provider.calls)
}

func TestCorrectRejectsEmptyText(t *testing.T) {
	svc := NewService(&fakeProvider{}, 5*time.Minute, noopLogger{})

	_, err := svc.Correct(context.Background(), "   ")
	require.Error(t, err)

	var aiErr *ai.AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, ai.ErrTypeValidation, aiErr.Type)
}
