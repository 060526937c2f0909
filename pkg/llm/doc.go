// Package llm provides the provider-agnostic core of the aibridge library.
//
// This package defines the normalized request and response types that all
// providers map to and from, along with the common infrastructure shared by
// the provider adapters.
//
// The main components include:
//
// - Client interface: core LLM client functionality with usage accounting
// - Message types: role-tagged chat messages
// - Configuration: provider-agnostic configuration and environment loading
// - Error handling: standardized error types with a fixed taxonomy
// - Retry and rate limiting: opt-in wrappers around any client
// - Prompt templates and structured output helpers
//
// Provider implementations are located in separate packages under /pkg/providers/
// to maintain clean separation of concerns and avoid import cycles.
package llm
