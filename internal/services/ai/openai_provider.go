// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAIProvider) GetCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       p.config.Model,
			Messages:    messages,
			Temperature: p.config.Temperature,
			TopP:        p.config.TopP,
		},
	)
	if err != nil {
		return "", classifyError("completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "empty completion response",
		}
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return classifyError("health_check", err)
	}
	return nil
}

func (p *OpenAIProvider) GetStatus(ctx context.Context) ProviderStatus {
	if err := p.HealthCheck(ctx); err != nil {
		return ProviderStatus{IsHealthy: false, Message: err.Error()}
	}
	return ProviderStatus{
		IsHealthy: true,
		Message:   "OpenAI provider healthy",
	}
}

// classifyError maps upstream failures onto the AI error taxonomy so callers
// can gate fallback logic on quota/rate-limit without string matching.
func classifyError(operation string, err error) *AIError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			errType := ErrTypeRateLimit
			if apiErr.Code == "insufficient_quota" {
				errType = ErrTypeQuota
			}
			return &AIError{
				Type:      errType,
				Code:      apiErr.HTTPStatusCode,
				Operation: operation,
				Message:   apiErr.Message,
				Cause:     err,
			}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AIError{
				Type:      ErrTypeAuth,
				Code:      apiErr.HTTPStatusCode,
				Operation: operation,
				Message:   apiErr.Message,
				Cause:     err,
			}
		}
	}
	return NewProviderError(operation, "failed to create completion", err)
}
