// Package ollama provides an Ollama client implementation for the aibridge library.
//
// This package implements the llm.Client interface for Ollama's local LLM
// hosting, supporting chat completions against the /api/chat endpoint.
//
// Features:
// - Local model hosting via Ollama (Llama, Mistral, Qwen, etc.)
// - Token usage taken from Ollama's eval counters
// - No API key required; cost is always zero
//
// The client connects to a local Ollama instance running on localhost:11434
// by default, but can be configured to use any Ollama endpoint.
package ollama
