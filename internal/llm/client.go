package llm

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/time/rate"

	"globetrotter/internal/config"
)

// Client wraps a Provider with client-side rate limiting so bursts of
// chat traffic do not exhaust the upstream quota.
type Client struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewClient wraps provider with a token bucket of rps requests per second
// and the given burst size.
func NewClient(provider Provider, rps float64, burst int) *Client {
	return &Client{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *Client) Name() string { return c.provider.Name() }

// Complete blocks until the rate limiter admits the call, then delegates
// to the wrapped provider.
func (c *Client) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm: rate limiter wait: %w", err)
	}
	return c.provider.Complete(ctx, prompt)
}

// NewFromConfig selects a provider from configuration. Gemini wins when
// both keys are set unless LLM_PROVIDER forces a choice. Returns
// ErrNoProvider when no key is configured; the caller then runs in
// fallback mode.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	var (
		provider Provider
		err      error
	)

	switch cfg.LLMProvider {
	case "gemini":
		provider, err = NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		provider, err = NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "":
		if cfg.GeminiAPIKey != "" {
			provider, err = NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		} else if cfg.OpenAIAPIKey != "" {
			provider, err = NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
		} else {
			return nil, ErrNoProvider
		}
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("🤖 [LLM] Using provider %s", provider.Name())

	// 2 req/s with burst 4, sized for free-tier provider quotas
	return NewClient(provider, 2, 4), nil
}
