package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krumsieklab/aibridge/pkg/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(llm.ClientConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o",
		BaseURL: server.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, server
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(llm.ClientConfig{Model: "gpt-4o"})
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if !llm.IsConfigurationError(err) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}

func TestChatCompletion_Success(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header: %q", auth)
		}

		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		// Friendly name resolves to the pinned API identifier
		if payload.Model != "gpt-4o-2024-05-13" {
			t.Errorf("Unexpected model in request: %q", payload.Model)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-123",
			"model": "gpt-4o-2024-05-13",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "hi there"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 3, "total_tokens": 12}
		}`))
	})

	resp, err := client.ChatCompletion(context.Background(), llm.NewUserRequest("gpt-4o", "hello"))
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	if resp.Text() != "hi there" {
		t.Errorf("Expected text %q, got %q", "hi there", resp.Text())
	}
	if resp.Choices[0].FinishReason != llm.FinishReasonStop {
		t.Errorf("Expected stop finish reason, got %q", resp.Choices[0].FinishReason)
	}
	if resp.Usage.TotalTokens != 12 {
		t.Errorf("Expected 12 total tokens, got %d", resp.Usage.TotalTokens)
	}
}

func TestChatCompletion_APIError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{
			"error": {"code": "rate_limit_exceeded", "message": "Rate limit reached", "type": "requests"}
		}`))
	})

	_, err := client.ChatCompletion(context.Background(), llm.NewUserRequest("gpt-4o", "hello"))
	if err == nil {
		t.Fatal("Expected error")
	}
	if !llm.IsProviderResponseError(err) {
		t.Fatalf("Expected provider response error, got %v", err)
	}

	llmErr := err.(*llm.Error)
	if llmErr.Message != "Rate limit reached" {
		t.Errorf("Expected provider message to be preserved, got %q", llmErr.Message)
	}
	if llmErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", llmErr.StatusCode)
	}
}

func TestChatCompletion_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from now on

	client, err := NewClient(llm.ClientConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o",
		BaseURL: server.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.ChatCompletion(context.Background(), llm.NewUserRequest("gpt-4o", "hello"))
	if err == nil {
		t.Fatal("Expected error for unreachable server")
	}
	if !llm.IsProviderRequestError(err) {
		t.Errorf("Expected provider request error, got %v", err)
	}
}

func TestChatCompletion_ValidatesBeforeCalling(t *testing.T) {
	t.Parallel()

	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.ChatCompletion(context.Background(), llm.ChatRequest{Model: "gpt-4o"})
	if err == nil {
		t.Fatal("Expected validation error for empty messages")
	}
	if !llm.IsConfigurationError(err) {
		t.Errorf("Expected configuration error, got %v", err)
	}
	if called {
		t.Error("Expected no network call for invalid requests")
	}
}

func TestUsageAndCostAccumulate(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-123",
			"model": "gpt-4o-2024-05-13",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "ok"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 1000, "completion_tokens": 1000, "total_tokens": 2000}
		}`))
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.ChatCompletion(ctx, llm.NewUserRequest("gpt-4o", "hello")); err != nil {
			t.Fatalf("Request %d failed: %v", i, err)
		}
	}

	usage := client.TokenUsage()
	if usage.PromptTokens != 2000 || usage.CompletionTokens != 2000 {
		t.Errorf("Unexpected accumulated usage: %+v", usage)
	}

	// gpt-4o: $0.005/1K input, $0.015/1K output
	want := 2*0.005 + 2*0.015
	if got := client.Cost(); got < want-1e-9 || got > want+1e-9 {
		t.Errorf("Expected cost %f, got %f", want, got)
	}
}

func TestResolveModel(t *testing.T) {
	t.Parallel()

	if got := resolveModel("gpt-3.5-turbo"); got != "gpt-3.5-turbo-1106" {
		t.Errorf("Expected pinned identifier, got %q", got)
	}
	if got := resolveModel("gpt-4o-2024-05-13"); got != "gpt-4o-2024-05-13" {
		t.Errorf("Expected passthrough for API identifiers, got %q", got)
	}
	if got := resolveModel("some-custom-model"); got != "some-custom-model" {
		t.Errorf("Expected passthrough for unknown models, got %q", got)
	}
}

func TestPricingForModel(t *testing.T) {
	t.Parallel()

	// Friendly name and API identifier resolve to the same pricing
	byFriendly := pricingForModel("gpt-4-turbo")
	byID := pricingForModel("gpt-4-turbo-2024-04-09")
	if byFriendly != byID {
		t.Errorf("Expected identical pricing, got %+v vs %+v", byFriendly, byID)
	}
	if byFriendly.InputPer1KTokens != 0.01 {
		t.Errorf("Unexpected pricing: %+v", byFriendly)
	}

	// Unknown models get zero pricing
	if pricingForModel("some-custom-model") != (llm.Pricing{}) {
		t.Error("Expected zero pricing for unknown models")
	}
}

func TestGetModelInfo(t *testing.T) {
	t.Parallel()

	client, err := NewClient(llm.ClientConfig{APIKey: "test-key", Model: "gpt-4o"})
	if err != nil {
		t.Fatal(err)
	}

	info := client.GetModelInfo()
	if info.Provider != "openai" {
		t.Errorf("Expected openai provider, got %q", info.Provider)
	}
	if info.Name != "gpt-4o-2024-05-13" {
		t.Errorf("Expected resolved model name, got %q", info.Name)
	}
	if info.MaxTokens != 128000 {
		t.Errorf("Expected 128000 context length, got %d", info.MaxTokens)
	}
}
