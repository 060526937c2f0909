// Core request and response types
package llm

import "fmt"

// Finish reasons reported in ChatResponse choices, normalized across providers
const (
	FinishReasonStop   = "stop"
	FinishReasonLength = "length"
)

// ChatRequest represents a chat completion request (provider-agnostic)
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float32  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	TopP        *float32  `json:"top_p,omitempty"`
}

// Validate checks the request invariants before any network call is made
func (r ChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return &Error{
			Code:    "empty_messages",
			Message: "request must contain at least one message",
			Type:    ErrorTypeConfiguration,
		}
	}
	for i, msg := range r.Messages {
		if err := msg.Validate(); err != nil {
			return &Error{
				Code:    "invalid_message",
				Message: fmt.Sprintf("message %d: %v", i, err),
				Type:    ErrorTypeConfiguration,
			}
		}
	}
	return nil
}

// ChatResponse represents a chat completion response (provider-agnostic)
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage,omitempty"`
}

// Choice represents a single response choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add returns the element-wise sum of two usage counters
func (u Usage) Add(other Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
	}
}

// Text returns the generated text of the first choice.
// Returns empty string if the response has no choices.
func (r ChatResponse) Text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// IsComplete checks if this choice represents a complete response
func (c Choice) IsComplete() bool {
	return c.FinishReason == FinishReasonStop || c.FinishReason == FinishReasonLength
}
