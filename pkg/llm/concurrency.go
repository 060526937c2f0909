// Concurrency cap for provider back ends
package llm

import "context"

// ConcurrencyLimitedChatCompleter wraps a ChatCompleter and caps the number
// of requests in flight at once. It pairs with RateLimitChatCompletion:
// the rate limiter spreads requests over time, this wrapper bounds how many
// run simultaneously against a back end with limited parallelism.
type ConcurrencyLimitedChatCompleter struct {
	client ChatCompleter
	slots  chan struct{}
}

// MaxConcurrentChatCompletion wraps a ChatCompleter so that at most
// maxConcurrent requests run at the same time. Additional calls block until
// a slot frees or the context is canceled. A limit of zero or less disables
// the cap and returns the client unchanged.
func MaxConcurrentChatCompletion(client ChatCompleter, maxConcurrent int) ChatCompleter {
	if maxConcurrent <= 0 {
		return client
	}
	return &ConcurrencyLimitedChatCompleter{
		client: client,
		slots:  make(chan struct{}, maxConcurrent),
	}
}

// ChatCompletion acquires a slot, delegates, and releases the slot
func (c *ConcurrencyLimitedChatCompleter) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	select {
	case c.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.slots }()

	return c.client.ChatCompletion(ctx, req)
}
