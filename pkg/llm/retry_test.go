package llm

import (
	"context"
	"testing"
	"time"
)

// fakeChatCompleter is a scripted implementation for testing the wrappers
type fakeChatCompleter struct {
	responses []*ChatResponse
	errors    []error
	callCount int
}

func (f *fakeChatCompleter) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if f.callCount < len(f.errors) && f.errors[f.callCount] != nil {
		err := f.errors[f.callCount]
		f.callCount++
		return nil, err
	}

	if f.callCount < len(f.responses) {
		resp := f.responses[f.callCount]
		f.callCount++
		return resp, nil
	}

	f.callCount++
	return &ChatResponse{ID: "fake-response", Model: "fake-model"}, nil
}

func TestRetryChatCompletion_Success(t *testing.T) {
	t.Parallel()

	fake := &fakeChatCompleter{
		responses: []*ChatResponse{{ID: "success-1", Model: "fake-model"}},
	}

	retryClient := RetryChatCompletion(fake)
	resp, err := retryClient.ChatCompletion(context.Background(), ChatRequest{Model: "fake-model"})

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if resp == nil || resp.ID != "success-1" {
		t.Errorf("Expected response with ID 'success-1', got: %v", resp)
	}
	if fake.callCount != 1 {
		t.Errorf("Expected 1 call, got: %d", fake.callCount)
	}
}

func TestRetryChatCompletion_RateLimitRetry(t *testing.T) {
	t.Parallel()

	rateLimitErr := NewProviderResponseError("rate_limit_exceeded", "rate limit exceeded", 429)
	fake := &fakeChatCompleter{
		errors:    []error{rateLimitErr, rateLimitErr},
		responses: []*ChatResponse{nil, nil, {ID: "after-retries", Model: "fake-model"}},
	}

	retryClient := RetryChatCompletion(fake, RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   10 * time.Millisecond,
	})

	resp, err := retryClient.ChatCompletion(context.Background(), ChatRequest{Model: "fake-model"})
	if err != nil {
		t.Errorf("Expected success after retries, got: %v", err)
	}
	if resp == nil || resp.ID != "after-retries" {
		t.Errorf("Expected response after retries, got: %v", resp)
	}
	if fake.callCount != 3 {
		t.Errorf("Expected 3 calls, got: %d", fake.callCount)
	}
}

func TestRetryChatCompletion_ConfigurationErrorNotRetried(t *testing.T) {
	t.Parallel()

	configErr := NewConfigurationError("missing_api_key", "API key is required")
	fake := &fakeChatCompleter{
		errors: []error{configErr},
	}

	retryClient := RetryChatCompletion(fake, RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
	})

	_, err := retryClient.ChatCompletion(context.Background(), ChatRequest{Model: "fake-model"})
	if err == nil {
		t.Fatal("Expected error to surface immediately")
	}
	if !IsConfigurationError(err) {
		t.Errorf("Expected the original configuration error, got: %v", err)
	}
	if fake.callCount != 1 {
		t.Errorf("Expected exactly 1 call, got: %d", fake.callCount)
	}
}

func TestRetryChatCompletion_TransportErrorRetried(t *testing.T) {
	t.Parallel()

	netErr := NewProviderRequestError("network_error", "connection refused")
	fake := &fakeChatCompleter{
		errors:    []error{netErr},
		responses: []*ChatResponse{nil, {ID: "recovered", Model: "fake-model"}},
	}

	retryClient := RetryChatCompletion(fake, RetryConfig{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
	})

	resp, err := retryClient.ChatCompletion(context.Background(), ChatRequest{Model: "fake-model"})
	if err != nil {
		t.Errorf("Expected recovery after transport error, got: %v", err)
	}
	if resp == nil || resp.ID != "recovered" {
		t.Errorf("Expected recovered response, got: %v", resp)
	}
}

func TestRetryChatCompletion_ExhaustedRetries(t *testing.T) {
	t.Parallel()

	serverErr := NewProviderResponseError("server_error", "internal error", 500)
	fake := &fakeChatCompleter{
		errors: []error{serverErr, serverErr, serverErr},
	}

	retryClient := RetryChatCompletion(fake, RetryConfig{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
	})

	_, err := retryClient.ChatCompletion(context.Background(), ChatRequest{Model: "fake-model"})
	if err == nil {
		t.Fatal("Expected last error after exhausting retries")
	}
	if !IsProviderResponseError(err) {
		t.Errorf("Expected the last provider error, got: %v", err)
	}
	if fake.callCount != 3 {
		t.Errorf("Expected 3 calls (1 + 2 retries), got: %d", fake.callCount)
	}
}

func TestRetryChatCompletion_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	badRequest := NewProviderResponseError("invalid_model", "model not found", 404)
	fake := &fakeChatCompleter{
		errors: []error{badRequest},
	}

	retryClient := RetryChatCompletion(fake, RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
	})

	_, err := retryClient.ChatCompletion(context.Background(), ChatRequest{Model: "fake-model"})
	if err == nil {
		t.Fatal("Expected error")
	}
	if fake.callCount != 1 {
		t.Errorf("Expected no retries on 404, got %d calls", fake.callCount)
	}
}

func TestRetryChatCompletion_ContextCancellation(t *testing.T) {
	t.Parallel()

	serverErr := NewProviderResponseError("server_error", "internal error", 500)
	fake := &fakeChatCompleter{
		errors: []error{serverErr, serverErr, serverErr, serverErr},
	}

	retryClient := RetryChatCompletion(fake, RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Jitter:     false,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := retryClient.ChatCompletion(ctx, ChatRequest{Model: "fake-model"})
	if err != context.DeadlineExceeded {
		t.Errorf("Expected context.DeadlineExceeded, got: %v", err)
	}
}

func TestRetryChatCompletion_CustomStatusCodes(t *testing.T) {
	t.Parallel()

	conflict := NewProviderResponseError("conflict", "resource busy", 409)
	fake := &fakeChatCompleter{
		errors:    []error{conflict},
		responses: []*ChatResponse{nil, {ID: "ok", Model: "fake-model"}},
	}

	retryClient := RetryChatCompletion(fake, RetryConfig{
		MaxRetries:         2,
		BaseDelay:          time.Millisecond,
		RetryOnStatusCodes: []int{409},
	})

	resp, err := retryClient.ChatCompletion(context.Background(), ChatRequest{Model: "fake-model"})
	if err != nil {
		t.Errorf("Expected retry on configured status code, got: %v", err)
	}
	if resp == nil || resp.ID != "ok" {
		t.Errorf("Expected response after retry, got: %v", resp)
	}
}

func TestCalculateDelay(t *testing.T) {
	t.Parallel()

	r := &RetryableChatCompleter{config: RetryConfig{
		BaseDelay:     time.Second,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        false,
	}}

	if got := r.calculateDelay(0); got != time.Second {
		t.Errorf("Expected 1s for attempt 0, got %v", got)
	}
	if got := r.calculateDelay(1); got != 2*time.Second {
		t.Errorf("Expected 2s for attempt 1, got %v", got)
	}
	// Capped by MaxDelay
	if got := r.calculateDelay(10); got != 5*time.Second {
		t.Errorf("Expected cap at 5s, got %v", got)
	}
}
