package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/krumsieklab/aibridge/pkg/llm"
)

const DefaultBaseURL = "https://api.anthropic.com"

// DefaultMaxTokens is applied when the request does not set MaxTokens;
// the Messages API rejects requests without one
const DefaultMaxTokens = 1024

const apiVersion = "2023-06-01"

// ModelSpec holds the full API identifier and pricing for a catalog entry
type ModelSpec struct {
	Name    string
	Pricing llm.Pricing
}

// Models is the catalog of known Claude models with their pricing
// (dollars per 1K tokens)
var Models = map[string]ModelSpec{
	"claude-3-opus": {
		Name:    "claude-3-opus-20240229",
		Pricing: llm.Pricing{InputPer1KTokens: 0.015, OutputPer1KTokens: 0.075},
	},
	"claude-3-sonnet": {
		Name:    "claude-3-sonnet-20240229",
		Pricing: llm.Pricing{InputPer1KTokens: 0.003, OutputPer1KTokens: 0.015},
	},
	"claude-3-haiku": {
		Name:    "claude-3-haiku-20240307",
		Pricing: llm.Pricing{InputPer1KTokens: 0.00025, OutputPer1KTokens: 0.00125},
	},
}

// Client implements the llm.Client interface for the Anthropic Messages API
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	pricing    llm.Pricing
	usage      llm.UsageTracker
}

// NewClient creates a new Anthropic client
func NewClient(config llm.ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, llm.NewConfigurationError("missing_api_key", "API key is required for Anthropic")
	}

	model := config.Model
	if model == "" {
		model = llm.DefaultAnthropicModel
	}
	model = resolveModel(model)

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := config.Timeout
	if timeout == 0 {
		timeout = llm.DefaultTimeout
	}

	return &Client{
		apiKey:  config.APIKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		pricing: pricingForModel(model),
	}, nil
}

// resolveModel maps a friendly catalog name to its pinned API identifier,
// passing unknown names through unchanged
func resolveModel(model string) string {
	if spec, ok := Models[model]; ok {
		return spec.Name
	}
	return model
}

// pricingForModel looks up pricing by friendly name or API identifier
func pricingForModel(model string) llm.Pricing {
	if spec, ok := Models[model]; ok {
		return spec.Pricing
	}
	for _, spec := range Models {
		if spec.Name == model {
			return spec.Pricing
		}
	}
	return llm.Pricing{}
}

// Anthropic API structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature *float32           `json:"temperature,omitempty"`
	TopP        *float32           `json:"top_p,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID         string `json:"id"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ChatCompletion performs a chat completion request using the Messages API
func (c *Client) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Convert to Anthropic format
	anthropicReq := c.convertRequest(req)

	// System messages live in the top-level system field; the API rejects
	// an empty messages array
	if len(anthropicReq.Messages) == 0 {
		return nil, llm.NewConfigurationError("empty_messages", "request contains no user or assistant messages")
	}

	// Serialize request
	reqBody, err := json.Marshal(anthropicReq)
	if err != nil {
		return nil, llm.NewProviderRequestError("request_error", fmt.Sprintf("failed to serialize request: %v", err))
	}

	// Create HTTP request
	url := fmt.Sprintf("%s/v1/messages", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, llm.NewProviderRequestError("request_error", fmt.Sprintf("failed to create request: %v", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	// Make request
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, llm.NewProviderRequestError("network_error", fmt.Sprintf("request failed: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.NewProviderRequestError("response_error", fmt.Sprintf("failed to read response: %v", err))
	}

	// Handle error responses
	if resp.StatusCode != http.StatusOK {
		return nil, c.convertErrorResponse(body, resp.StatusCode)
	}

	// Parse successful response
	var anthropicResp anthropicResponse
	if err := json.Unmarshal(body, &anthropicResp); err != nil {
		return nil, llm.NewProviderResponseError("parse_error", fmt.Sprintf("failed to parse response: %v", err), resp.StatusCode)
	}

	out := c.convertResponse(anthropicResp)
	c.usage.Record(out.Usage)
	return out, nil
}

// convertRequest converts our format to the Messages API shape.
// System messages are concatenated into the top-level system field,
// which is where the API expects them.
func (c *Client) convertRequest(req llm.ChatRequest) anthropicRequest {
	model := req.Model
	if model == "" {
		model = c.model
	} else {
		model = resolveModel(model)
	}

	maxTokens := DefaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	var systemParts []string
	messages := make([]anthropicMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == llm.RoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		messages = append(messages, anthropicMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      strings.Join(systemParts, "\n"),
		Messages:    messages,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}
}

// convertResponse converts a Messages API response to our format
func (c *Client) convertResponse(resp anthropicResponse) *llm.ChatResponse {
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	usage := llm.Usage{
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}

	return &llm.ChatResponse{
		ID:    resp.ID,
		Model: resp.Model,
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      llm.NewTextMessage(llm.RoleAssistant, text.String()),
				FinishReason: convertStopReason(resp.StopReason),
			},
		},
		Usage: usage,
	}
}

// convertStopReason normalizes Anthropic stop reasons
func convertStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return llm.FinishReasonStop
	case "max_tokens":
		return llm.FinishReasonLength
	default:
		return reason
	}
}

// convertErrorResponse maps an error payload to the standardized taxonomy,
// preserving the provider's original message
func (c *Client) convertErrorResponse(body []byte, statusCode int) error {
	var errResp anthropicErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return llm.NewProviderResponseError(errResp.Error.Type, errResp.Error.Message, statusCode)
	}

	return llm.NewProviderResponseError("api_error", fmt.Sprintf("Anthropic API error (status %d): %s", statusCode, string(body)), statusCode)
}

// GetModelInfo returns information about the model being used
func (c *Client) GetModelInfo() llm.ModelInfo {
	return llm.ModelInfo{
		Name:      c.model,
		Provider:  "anthropic",
		MaxTokens: 200000, // Claude 3 family context window
		Pricing:   c.pricing,
	}
}

// TokenUsage returns the accumulated token usage
func (c *Client) TokenUsage() llm.Usage {
	return c.usage.Total()
}

// Cost returns the accumulated cost in dollars
func (c *Client) Cost() float64 {
	return c.pricing.Cost(c.usage.Total())
}

// Close cleans up resources
func (c *Client) Close() error {
	// No cleanup needed for HTTP client
	return nil
}
