// Package anthropic provides an Anthropic client implementation for the aibridge library.
//
// This package implements the llm.Client interface against the Anthropic
// Messages API (/v1/messages), supporting chat completions with token usage
// and cost accounting.
//
// Features:
// - Claude model support with a per-model pricing catalog
// - System messages lifted into the API's top-level system field
// - Standardized error mapping, preserving the provider's error payload
//
// The client talks plain HTTPS; no vendor SDK is required.
package anthropic
