package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/krumsieklab/aibridge/pkg/llm"
)

// modelContextList maps model name patterns to context length,
// first match wins
var modelContextList = []struct {
	pattern   *regexp.Regexp
	maxTokens int
}{
	// Llama 3.1 models (131K context)
	{regexp.MustCompile(`llama3\.1`), 131072},
	// Qwen models (32K context)
	{regexp.MustCompile(`qwen`), 32768},
	// CodeLlama models (16K context)
	{regexp.MustCompile(`codellama`), 16384},
	// Mistral models (32K context)
	{regexp.MustCompile(`mistral`), 32768},
}

// Client implements the llm.Client interface for Ollama
type Client struct {
	model      string
	baseURL    string
	httpClient *http.Client
	usage      llm.UsageTracker
}

// NewClient creates a new Ollama client
func NewClient(config llm.ClientConfig) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = llm.DefaultOllamaBaseURL
	}

	model := config.Model
	if model == "" {
		model = llm.DefaultOllamaModel
	}

	// Ensure the base URL doesn't have trailing slash
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := config.Timeout
	if timeout == 0 {
		timeout = llm.DefaultOllamaTimeout // local inference can be slow
	}

	return &Client{
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Ollama API structures
type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature *float32 `json:"temperature,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"` // Ollama's equivalent to max_tokens
}

type ollamaResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	DoneReason      string        `json:"done_reason,omitempty"`
	PromptEvalCount int           `json:"prompt_eval_count,omitempty"`
	EvalCount       int           `json:"eval_count,omitempty"`
	Error           string        `json:"error,omitempty"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// ChatCompletion performs a chat completion request using Ollama's API
func (c *Client) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Convert to Ollama format
	ollamaReq := c.convertRequest(req)

	// Serialize request
	reqBody, err := json.Marshal(ollamaReq)
	if err != nil {
		return nil, llm.NewProviderRequestError("request_error", fmt.Sprintf("failed to serialize request: %v", err))
	}

	// Build URL - Ollama uses /api/chat endpoint
	url := fmt.Sprintf("%s/api/chat", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, llm.NewProviderRequestError("request_error", fmt.Sprintf("failed to create request: %v", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")

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
	var ollamaResp ollamaResponse
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return nil, llm.NewProviderResponseError("parse_error", fmt.Sprintf("failed to parse response: %v", err), resp.StatusCode)
	}

	out := c.convertResponse(ollamaResp)
	c.usage.Record(out.Usage)
	return out, nil
}

// convertRequest converts our format to Ollama format
func (c *Client) convertRequest(req llm.ChatRequest) ollamaRequest {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]ollamaMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, ollamaMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	ollamaReq := ollamaRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	}

	// Add options if specified
	if req.Temperature != nil || req.MaxTokens != nil || req.TopP != nil {
		ollamaReq.Options = &ollamaOptions{
			Temperature: req.Temperature,
			TopP:        req.TopP,
			NumPredict:  req.MaxTokens,
		}
	}

	return ollamaReq
}

// convertResponse converts an Ollama response to our format
func (c *Client) convertResponse(resp ollamaResponse) *llm.ChatResponse {
	finishReason := llm.FinishReasonStop
	if resp.DoneReason == "length" {
		finishReason = llm.FinishReasonLength
	}

	return &llm.ChatResponse{
		ID:    fmt.Sprintf("ollama-%s", resp.Model),
		Model: resp.Model,
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      llm.NewTextMessage(llm.RoleAssistant, resp.Message.Content),
				FinishReason: finishReason,
			},
		},
		Usage: llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}
}

// convertErrorResponse maps an Ollama error payload to the standardized taxonomy
func (c *Client) convertErrorResponse(body []byte, statusCode int) error {
	var errResp ollamaError
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return llm.NewProviderResponseError("ollama_error", errResp.Error, statusCode)
	}

	return llm.NewProviderResponseError("api_error", fmt.Sprintf("Ollama API error (status %d): %s", statusCode, string(body)), statusCode)
}

// GetModelInfo returns information about the model
func (c *Client) GetModelInfo() llm.ModelInfo {
	maxTokens := 4096
	for _, entry := range modelContextList {
		if entry.pattern.MatchString(c.model) {
			maxTokens = entry.maxTokens
			break
		}
	}

	return llm.ModelInfo{
		Name:      c.model,
		Provider:  "ollama",
		MaxTokens: maxTokens,
		Pricing:   llm.Pricing{}, // local models are free
	}
}

// TokenUsage returns the accumulated token usage
func (c *Client) TokenUsage() llm.Usage {
	return c.usage.Total()
}

// Cost returns zero: Ollama runs locally
func (c *Client) Cost() float64 {
	return 0
}

// Close cleans up resources
func (c *Client) Close() error {
	// No cleanup needed for HTTP client
	return nil
}
