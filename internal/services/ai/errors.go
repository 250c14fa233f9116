// File: internal/services/ai/errors.go
package ai

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeRateLimit  ErrorType = "RATE_LIMIT"
	ErrTypeQuota      ErrorType = "QUOTA"
	ErrTypeAuth       ErrorType = "AUTH"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type AIError struct {
	Type      ErrorType
	Code      int
	Message   string
	Operation string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error { return e.Cause }

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

func NewProviderError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}

// IsQuotaError reports whether err represents a rate-limit or quota failure
// on the remote model. These are the only failures that arm the fallback
// cool-down; everything else is surfaced as-is.
func IsQuotaError(err error) bool {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Type == ErrTypeQuota || aiErr.Type == ErrTypeRateLimit
	}
	return false
}

// IsAuthError reports whether the remote model rejected our credentials.
func IsAuthError(err error) bool {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Type == ErrTypeAuth
	}
	return false
}
