package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/krumsieklab/aibridge/pkg/llm"
)

// Client implements the llm.Client interface for testing
type Client struct {
	mu                sync.Mutex
	modelInfo         llm.ModelInfo
	responses         []llm.ChatResponse
	responseIndex     int
	errors            []error
	errorIndex        int
	callLog           []llm.ChatRequest
	latencySimulation time.Duration
	usage             llm.UsageTracker
}

// NewClient creates a new mock LLM client for testing
func NewClient(modelName, provider string) (*Client, error) {
	return &Client{
		modelInfo: llm.ModelInfo{
			Name:      modelName,
			Provider:  provider,
			MaxTokens: 4096,
		},
	}, nil
}

// ChatCompletion returns the next queued error or response. When both queues
// are exhausted it echoes a canned reply so tests without explicit setup
// still get non-empty text.
func (m *Client) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.callLog = append(m.callLog, req)
	latency := m.latencySimulation

	var queuedErr error
	if m.errorIndex < len(m.errors) {
		queuedErr = m.errors[m.errorIndex]
		m.errorIndex++
	}

	var queuedResp *llm.ChatResponse
	if queuedErr == nil && m.responseIndex < len(m.responses) {
		resp := m.responses[m.responseIndex]
		m.responseIndex++
		queuedResp = &resp
	}
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(latency):
		}
	}

	if queuedErr != nil {
		return nil, queuedErr
	}

	if queuedResp == nil {
		queuedResp = m.defaultResponse(req)
	}
	m.usage.Record(queuedResp.Usage)
	return queuedResp, nil
}

// defaultResponse synthesizes a reply echoing the last user message
func (m *Client) defaultResponse(req llm.ChatRequest) *llm.ChatResponse {
	var lastUserMessage string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == llm.RoleUser {
			lastUserMessage = req.Messages[i].Content
			break
		}
	}

	response := fmt.Sprintf("Mock response to: %s", lastUserMessage)
	promptTokens := len(strings.Fields(lastUserMessage)) + 5
	completionTokens := len(strings.Fields(response))

	return &llm.ChatResponse{
		ID:    fmt.Sprintf("mock-resp-%d", time.Now().UnixNano()),
		Model: req.Model,
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      llm.NewTextMessage(llm.RoleAssistant, response),
				FinishReason: llm.FinishReasonStop,
			},
		},
		Usage: llm.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}
}

// AddResponse queues a response to be returned by the next completion call
func (m *Client) AddResponse(response llm.ChatResponse) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, response)
	return m
}

// AddError queues an error to be returned by the next completion call.
// Queued errors take precedence over queued responses.
func (m *Client) AddError(err error) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, err)
	return m
}

// WithSimpleResponse queues a plain text response
func (m *Client) WithSimpleResponse(content string) *Client {
	promptTokens := 5
	completionTokens := len(strings.Fields(content))
	return m.AddResponse(llm.ChatResponse{
		ID:    fmt.Sprintf("mock-resp-%d", time.Now().UnixNano()),
		Model: m.modelInfo.Name,
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      llm.NewTextMessage(llm.RoleAssistant, content),
				FinishReason: llm.FinishReasonStop,
			},
		},
		Usage: llm.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	})
}

// WithError queues a standardized error
func (m *Client) WithError(code, message, errorType string) *Client {
	return m.AddError(&llm.Error{Code: code, Message: message, Type: errorType})
}

// WithLatency makes every completion call wait for the given duration
func (m *Client) WithLatency(duration time.Duration) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencySimulation = duration
	return m
}

// GetCallLog returns a copy of all requests seen so far
func (m *Client) GetCallLog() []llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	log := make([]llm.ChatRequest, len(m.callLog))
	copy(log, m.callLog)
	return log
}

// GetLastCall returns the most recent request, or nil if none were made
func (m *Client) GetLastCall() *llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.callLog) == 0 {
		return nil
	}
	last := m.callLog[len(m.callLog)-1]
	return &last
}

// Reset clears queues, call log and usage counters
func (m *Client) Reset() *Client {
	m.mu.Lock()
	m.responses = nil
	m.responseIndex = 0
	m.errors = nil
	m.errorIndex = 0
	m.callLog = nil
	m.latencySimulation = 0
	m.mu.Unlock()
	m.usage.Reset()
	return m
}

// GetModelInfo returns information about the model
func (m *Client) GetModelInfo() llm.ModelInfo {
	return m.modelInfo
}

// TokenUsage returns the accumulated token usage
func (m *Client) TokenUsage() llm.Usage {
	return m.usage.Total()
}

// Cost returns zero: mocks are free
func (m *Client) Cost() float64 {
	return 0
}

// Close cleans up resources
func (m *Client) Close() error {
	return nil
}
