// Package gemini provides a Google Gemini client implementation for the aibridge library.
//
// This package implements the llm.Client interface on top of the official
// google.golang.org/genai SDK, supporting chat completions with token usage
// accounting.
//
// System messages are passed to the API as a system instruction; the rest of
// the conversation is replayed as chat history with the final message sent
// as the current turn.
package gemini
