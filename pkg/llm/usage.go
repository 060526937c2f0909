// Cumulative token usage accounting
package llm

import "sync"

// UsageTracker accumulates token usage across requests. Provider clients
// embed one and feed it the usage counters from each response, which is
// what makes Client.TokenUsage and Client.Cost work.
//
// The zero value is ready to use. Safe for concurrent use.
type UsageTracker struct {
	mu    sync.Mutex
	total Usage
}

// Record adds the usage counters of a single response to the running total
func (t *UsageTracker) Record(u Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = t.total.Add(u)
}

// Total returns a snapshot of the accumulated usage
func (t *UsageTracker) Total() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Reset clears the accumulated counters
func (t *UsageTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = Usage{}
}
