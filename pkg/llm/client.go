// Client interfaces
package llm

import "context"

// Client defines the core interface that all LLM clients must implement
type Client interface {
	// ChatCompletion performs a chat completion request
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// GetModelInfo returns information about the model being used
	GetModelInfo() ModelInfo

	// TokenUsage returns the token usage accumulated over all requests
	// made through this client
	TokenUsage() Usage

	// Cost returns the accumulated cost in dollars for all requests made
	// through this client, based on the model's pricing
	Cost() float64

	// Close cleans up any resources used by the client
	Close() error
}

// ChatCompleter defines the minimal interface for anything that can perform
// chat completions. It is the unit the retry and rate limiting wrappers
// operate on, so they compose with full clients and with each other.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
