package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenAIProvider completes prompts against any OpenAI-compatible
// chat completions endpoint.
type OpenAIProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAI builds a provider for the given endpoint. baseURL is the API
// root without the /chat/completions suffix.
func NewOpenAI(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	return &OpenAIProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Complete sends a non-streaming chat completion request and returns the
// first choice's content.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	messages := []map[string]interface{}{}
	if prompt.System != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": prompt.System,
		})
	}
	messages = append(messages, map[string]interface{}{
		"role":    "user",
		"content": prompt.User,
	})

	requestBody := map[string]interface{}{
		"model":    p.model,
		"messages": messages,
		"stream":   false,
	}
	if prompt.Temperature > 0 {
		requestBody["temperature"] = prompt.Temperature
	}
	if prompt.JSONOnly {
		requestBody["response_format"] = map[string]interface{}{"type": "json_object"}
	}

	reqBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("openai: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("openai: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", fmt.Errorf("openai: failed to parse response: %w", err)
	}
	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	return apiResponse.Choices[0].Message.Content, nil
}
