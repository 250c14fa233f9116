// File: internal/services/ai/interface.go
package ai

import "context"

// ProviderStatus represents AI provider health
type ProviderStatus struct {
	IsHealthy bool
	Message   string
}

// CompletionProvider handles chat completions
type CompletionProvider interface {
	GetCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	HealthCheck(ctx context.Context) error
	GetStatus(ctx context.Context) ProviderStatus
}
