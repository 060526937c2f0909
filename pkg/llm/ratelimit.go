// Request rate limiting for provider quotas
package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedChatCompleter wraps a ChatCompleter and enforces a
// requests-per-minute budget using a sliding one-minute window.
// When the budget is exhausted, ChatCompletion blocks until the oldest
// request in the window expires or the context is canceled.
type RateLimitedChatCompleter struct {
	client            ChatCompleter
	requestsPerMinute int

	mu         sync.Mutex
	timestamps []time.Time
}

// RateLimitChatCompletion wraps a ChatCompleter with a requests-per-minute
// limit. A limit of zero or less disables limiting and returns the client
// unchanged.
func RateLimitChatCompletion(client ChatCompleter, requestsPerMinute int) ChatCompleter {
	if requestsPerMinute <= 0 {
		return client
	}
	return &RateLimitedChatCompleter{
		client:            client,
		requestsPerMinute: requestsPerMinute,
	}
}

// ChatCompletion waits for a free slot in the window, then delegates
func (r *RateLimitedChatCompleter) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	return r.client.ChatCompletion(ctx, req)
}

// acquire blocks until a request slot is available in the current window
func (r *RateLimitedChatCompleter) acquire(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := time.Now()

		// Drop timestamps that fell out of the window
		cutoff := now.Add(-time.Minute)
		kept := r.timestamps[:0]
		for _, ts := range r.timestamps {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}
		r.timestamps = kept

		if len(r.timestamps) < r.requestsPerMinute {
			r.timestamps = append(r.timestamps, now)
			r.mu.Unlock()
			return nil
		}

		// Wait until the oldest request leaves the window
		wait := time.Minute - now.Sub(r.timestamps[0])
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
