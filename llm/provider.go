// Package llm provides LLM provider abstractions.
//
// Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling
//
// The interface is single round-trip only: no tool calls, no streaming.
// The picklist core drives models as a ranking engine, never as a
// multi-turn agent.

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing
// a consistent interface for one-shot chat completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Chat sends a single chat completion request and returns the
	// response or an error. Rate-limit classification of the returned
	// error is the caller's responsibility (see IsRateLimited).
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}
