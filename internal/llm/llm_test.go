package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"globetrotter/internal/config"
)

type stubProvider struct {
	response string
	err      error
	calls    int
}

func (p *stubProvider) Name() string { return "stub" }
func (p *stubProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	p.calls++
	return p.response, p.err
}

// TestNewOpenAIRequiresKey tests construction validation.
func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI("http://localhost", "", "gpt-4o-mini"); err == nil {
		t.Error("Expected an error for an empty API key")
	}
}

// TestOpenAIComplete tests the request shape and response handling against
// a fake chat completions endpoint.
func TestOpenAIComplete(t *testing.T) {
	var captured struct {
		path   string
		auth   string
		body   map[string]interface{}
		method string
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.method = r.Method
		if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Welcome to Goa!"}}]}`))
	}))
	defer server.Close()

	provider, err := NewOpenAI(server.URL, "test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}

	result, err := provider.Complete(context.Background(), Prompt{
		System:      "You are a travel planner.",
		User:        "Plan a trip to Goa",
		Temperature: 0.7,
		JSONOnly:    true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result != "Welcome to Goa!" {
		t.Errorf("result = %q, expected Welcome to Goa!", result)
	}

	if captured.method != "POST" {
		t.Errorf("method = %q, expected POST", captured.method)
	}
	if captured.path != "/chat/completions" {
		t.Errorf("path = %q, expected /chat/completions", captured.path)
	}
	if captured.auth != "Bearer test-key" {
		t.Errorf("Authorization = %q, expected Bearer test-key", captured.auth)
	}
	if captured.body["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v, expected gpt-4o-mini", captured.body["model"])
	}
	if captured.body["stream"] != false {
		t.Errorf("stream = %v, expected false", captured.body["stream"])
	}
	if _, ok := captured.body["temperature"]; !ok {
		t.Error("Expected temperature in the request body")
	}
	if _, ok := captured.body["response_format"]; !ok {
		t.Error("Expected response_format for a JSON-only prompt")
	}

	messages, ok := captured.body["messages"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %v", captured.body["messages"])
	}
	first := messages[0].(map[string]interface{})
	if first["role"] != "system" {
		t.Errorf("First message role = %v, expected system", first["role"])
	}
	second := messages[1].(map[string]interface{})
	if second["role"] != "user" || second["content"] != "Plan a trip to Goa" {
		t.Errorf("Unexpected user message: %v", second)
	}
}

// TestOpenAICompleteNoSystem tests that an empty system prompt sends a
// single message.
func TestOpenAICompleteNoSystem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		messages, _ := body["messages"].([]interface{})
		if len(messages) != 1 {
			t.Errorf("Expected 1 message, got %d", len(messages))
		}
		if _, ok := body["temperature"]; ok {
			t.Error("Expected no temperature for a zero-temperature prompt")
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	provider, _ := NewOpenAI(server.URL, "test-key", "gpt-4o-mini")
	if _, err := provider.Complete(context.Background(), Prompt{User: "hi"}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
}

// TestOpenAICompleteErrors tests API failure handling.
func TestOpenAICompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", 500, `{"error":"overloaded"}`},
		{"no choices", 200, `{"choices":[]}`},
		{"malformed body", 200, `{"choices": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			provider, _ := NewOpenAI(server.URL, "test-key", "gpt-4o-mini")
			if _, err := provider.Complete(context.Background(), Prompt{User: "hi"}); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

// TestClientDelegates tests that the rate-limited client passes calls
// through.
func TestClientDelegates(t *testing.T) {
	stub := &stubProvider{response: "delegated"}
	client := NewClient(stub, 100, 10)

	if client.Name() != "stub" {
		t.Errorf("Name = %q, expected stub", client.Name())
	}

	result, err := client.Complete(context.Background(), Prompt{User: "hi"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result != "delegated" {
		t.Errorf("result = %q, expected delegated", result)
	}
	if stub.calls != 1 {
		t.Errorf("Expected 1 provider call, got %d", stub.calls)
	}
}

// TestClientCanceledContext tests that a canceled context aborts before the
// provider is called.
func TestClientCanceledContext(t *testing.T) {
	stub := &stubProvider{response: "never"}
	client := NewClient(stub, 100, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, Prompt{User: "hi"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if stub.calls != 0 {
		t.Errorf("Expected no provider calls, got %d", stub.calls)
	}
}

// TestNewFromConfig tests provider selection.
func TestNewFromConfig(t *testing.T) {
	// No keys configured
	_, err := NewFromConfig(context.Background(), &config.Config{})
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("Expected ErrNoProvider, got %v", err)
	}

	// Unknown provider name
	_, err = NewFromConfig(context.Background(), &config.Config{LLMProvider: "palmtree"})
	if err == nil {
		t.Error("Expected an error for an unknown provider")
	}

	// Forced openai without a key
	_, err = NewFromConfig(context.Background(), &config.Config{LLMProvider: "openai"})
	if err == nil {
		t.Error("Expected an error for openai without a key")
	}

	// OpenAI key present, no forced provider
	client, err := NewFromConfig(context.Background(), &config.Config{
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: "http://localhost:9999",
		OpenAIModel:   "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	if client.Name() != "openai" {
		t.Errorf("Name = %q, expected openai", client.Name())
	}
}

// TestNewGeminiRequiresKey tests construction validation.
func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", "gemini-1.5-flash"); err == nil {
		t.Error("Expected an error for an empty API key")
	}
}
