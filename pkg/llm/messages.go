// Message types and functionality
package llm

import "fmt"

// Message represents a single chat message
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// MessageRole defines the role of a message sender
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// IsValid checks if the role is one of the supported roles
func (r MessageRole) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// NewTextMessage creates a new Message with the given role and text
func NewTextMessage(role MessageRole, text string) Message {
	return Message{
		Role:    role,
		Content: text,
	}
}

// NewUserRequest builds a single-turn request from a plain prompt string.
// This is the shortest path from "a prompt" to a valid ChatRequest.
func NewUserRequest(model, prompt string) ChatRequest {
	return ChatRequest{
		Model:    model,
		Messages: []Message{NewTextMessage(RoleUser, prompt)},
	}
}

// Validate checks the message invariants
func (m Message) Validate() error {
	if !m.Role.IsValid() {
		return fmt.Errorf("invalid role %q", m.Role)
	}
	return nil
}
