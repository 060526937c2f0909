// Retry wrapper for chat completions with exponential backoff.
//
// Retrying is strictly opt-in: provider adapters never retry on their own.
//
// Basic usage with default configuration (3 retries, 1s base delay, 2x backoff):
//
//	client, _ := openai.NewClient(config)
//	retryClient := llm.RetryChatCompletion(client)
//	resp, err := retryClient.ChatCompletion(ctx, request)
//
// Conservative retry for rate-limited APIs:
//
//	retryConfig := llm.RetryConfig{
//		MaxRetries:    5,
//		BaseDelay:     2 * time.Second,
//		MaxDelay:      5 * time.Minute,
//		BackoffFactor: 2.5,
//		Jitter:        true,
//	}
//	retryClient := llm.RetryChatCompletion(client, retryConfig)
package llm

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"math"
	"time"
)

// secureRandomFloat64 generates a cryptographically secure random float64 between 0 and 1
func secureRandomFloat64() (float64, error) {
	var bytes [8]byte
	_, err := rand.Read(bytes[:])
	if err != nil {
		return 0, err
	}
	return float64(binary.BigEndian.Uint64(bytes[:])) / float64(^uint64(0)), nil
}

// RetryConfig defines configuration options for the retry mechanism
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3).
	// Total requests = MaxRetries + 1 (original attempt).
	MaxRetries int

	// BaseDelay is the initial delay between retries (default: 1 second)
	BaseDelay time.Duration

	// MaxDelay caps the maximum delay between retries (default: 60 seconds)
	MaxDelay time.Duration

	// BackoffFactor multiplies the delay after each retry (default: 2.0)
	BackoffFactor float64

	// Jitter adds randomness to delays to prevent thundering herd (default: true).
	// Multiplies delay by a random factor between 0.5 and 1.5.
	Jitter bool

	// RetryOnStatusCodes specifies exact HTTP status codes to retry on.
	// If empty, the default behavior applies (429 and 5xx).
	RetryOnStatusCodes []int

	// RetryOnErrorCodes specifies additional error codes to retry on.
	// If empty, the default behavior applies ("rate_limit_exceeded").
	RetryOnErrorCodes []string
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		BaseDelay:     1 * time.Second,
		MaxDelay:      60 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// RetryableChatCompleter wraps a ChatCompleter with retry functionality
type RetryableChatCompleter struct {
	client ChatCompleter
	config RetryConfig
}

// RetryChatCompletion creates a new retryable wrapper around any ChatCompleter.
// It retries requests when throttling (HTTP 429), rate limit errors, or
// temporary server errors (5xx) occur, using exponential backoff with
// optional jitter. Transport failures are retried as well; configuration
// errors are never retried.
func RetryChatCompletion(client ChatCompleter, config ...RetryConfig) ChatCompleter {
	cfg := DefaultRetryConfig()
	if len(config) > 0 {
		cfg = config[0]
		// Ensure sane defaults for zero values
		if cfg.MaxRetries <= 0 {
			cfg.MaxRetries = 3
		}
		if cfg.BaseDelay <= 0 {
			cfg.BaseDelay = 1 * time.Second
		}
		if cfg.MaxDelay <= 0 {
			cfg.MaxDelay = 60 * time.Second
		}
		if cfg.BackoffFactor <= 0 {
			cfg.BackoffFactor = 2.0
		}
	}

	return &RetryableChatCompleter{
		client: client,
		config: cfg,
	}
}

// ChatCompletion executes the chat completion with retry logic
func (r *RetryableChatCompleter) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		resp, err := r.client.ChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		// Don't sleep after the final attempt
		if attempt == r.config.MaxRetries {
			break
		}

		if !r.isRetryable(err) {
			return nil, err
		}

		delay := r.calculateDelay(attempt)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

// isRetryable determines whether an error should trigger another attempt
func (r *RetryableChatCompleter) isRetryable(err error) bool {
	llmErr, ok := err.(*Error)
	if !ok {
		return false
	}

	// Configuration problems never fix themselves
	if llmErr.Type == ErrorTypeConfiguration {
		return false
	}

	// Transport failures are worth another attempt
	if llmErr.Type == ErrorTypeProviderRequest {
		return true
	}

	// Explicit status code list takes precedence over defaults
	if len(r.config.RetryOnStatusCodes) > 0 {
		for _, code := range r.config.RetryOnStatusCodes {
			if llmErr.StatusCode == code {
				return true
			}
		}
		return false
	}

	if llmErr.StatusCode == 429 || (llmErr.StatusCode >= 500 && llmErr.StatusCode < 600) {
		return true
	}

	for _, code := range r.config.RetryOnErrorCodes {
		if llmErr.Code == code {
			return true
		}
	}

	return llmErr.Code == "rate_limit_exceeded"
}

// calculateDelay computes the backoff delay for the given attempt number
func (r *RetryableChatCompleter) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.BackoffFactor, float64(attempt))

	if r.config.Jitter {
		if jitter, err := secureRandomFloat64(); err == nil {
			delay *= 0.5 + jitter
		}
	}

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	return time.Duration(delay)
}
