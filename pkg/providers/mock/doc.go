// Package mock provides a mock client implementation for testing aibridge applications.
//
// This package implements the llm.Client interface with configurable
// responses, errors, and behaviors for testing LLM-based code without
// network access.
//
// Features:
// - Queued responses and errors, consumed one per call (AddResponse,
//   WithSimpleResponse, AddError)
// - A default reply echoing the last user message once the queues are empty
// - Latency simulation
// - Call logging and assertions
// - Synthesized token usage so cost accounting can be exercised
//
// The mock client is ideal for unit tests, integration tests, and development
// scenarios where you need predictable LLM behavior without actual API calls.
package mock
