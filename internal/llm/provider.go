// Package llm abstracts the chat completion providers used for itinerary
// generation and travel advice. Gemini is the primary provider with any
// OpenAI-compatible endpoint as the alternative.
package llm

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when no provider is configured. Callers are
// expected to fall back to non-LLM behavior.
var ErrNoProvider = errors.New("no LLM provider configured")

// Prompt is a single completion request.
type Prompt struct {
	// System sets the assistant persona. Optional.
	System string

	// User is the request text.
	User string

	// Temperature overrides the provider default when > 0.
	Temperature float32

	// JSONOnly asks the provider to return a bare JSON document.
	JSONOnly bool
}

// Provider produces a completion for a prompt.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Complete returns the model's text response.
	Complete(ctx context.Context, prompt Prompt) (string, error)
}
