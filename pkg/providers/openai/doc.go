// Package openai provides an OpenAI client implementation for the aibridge library.
//
// This package implements the llm.Client interface for OpenAI's GPT models,
// supporting chat completions with token usage and cost accounting.
//
// Features:
// - Full GPT model support (GPT-3.5, GPT-4, GPT-4o, etc.)
// - Custom base URLs for OpenAI-compatible endpoints (LM Studio, vLLM, etc.)
// - Cost accounting based on a per-model pricing catalog
// - Standardized error mapping for transport and provider failures
//
// The client automatically handles provider-specific request/response
// transformations while maintaining compatibility with the common llm interfaces.
package openai
