// Package ai defines the provider interface for generative-model calls.
//
// Providers are prompt-in/text-out: prompt assembly and structured-output
// parsing live in the advisor package, so the provider stays a thin transport.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider executes a single model completion. Implementations must not
// retry: any failure propagates immediately to the caller.
type Provider interface {
	Complete(ctx context.Context, params CompleteParams) (*CompleteResult, error)
}

// CompleteParams contains the assembled prompt and generation settings.
type CompleteParams struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// CompleteResult is the raw model output plus usage accounting.
type CompleteResult struct {
	Text  string
	Usage UsageInfo
}

// UsageInfo tracks token usage for monitoring.
type UsageInfo struct {
	Model        string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
}

// Error codes for provider operations
var (
	// EAIRateLimit indicates the API rate limit has been exceeded
	EAIRateLimit = errors.New("ai provider rate limit exceeded")

	// EAITimeout indicates the request timed out
	EAITimeout = errors.New("ai request timed out")

	// EAIUnavailable indicates the AI service is temporarily unavailable
	EAIUnavailable = errors.New("ai service temporarily unavailable")

	// EAIUnauthorized indicates invalid API credentials
	EAIUnauthorized = errors.New("ai provider authentication failed")
)

// WrapError wraps an error with context about the AI operation
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("ai %s: %w", operation, err)
}
