package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider completes prompts against Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGemini dials the Gemini API. The client holds a connection pool and
// should be closed on shutdown.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Complete sends the prompt to Gemini and concatenates the text parts of
// the first candidate.
func (p *GeminiProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	model := p.client.GenerativeModel(p.model)
	if prompt.Temperature > 0 {
		model.SetTemperature(prompt.Temperature)
	}
	if prompt.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(prompt.System))
	}
	if prompt.JSONOnly {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", fmt.Errorf("gemini: generate failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying API client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}
