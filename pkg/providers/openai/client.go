package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/sashabaranov/go-openai"

	"github.com/krumsieklab/aibridge/pkg/llm"
)

// ModelSpec holds the full API identifier and pricing for a catalog entry
type ModelSpec struct {
	Name    string
	Pricing llm.Pricing
}

// Models is the catalog of known OpenAI models with their pricing
// (dollars per 1K tokens). Keys are the friendly names; Name carries the
// pinned API identifier.
var Models = map[string]ModelSpec{
	"gpt-3.5-turbo": {
		Name:    "gpt-3.5-turbo-1106",
		Pricing: llm.Pricing{InputPer1KTokens: 0.0010, OutputPer1KTokens: 0.0020},
	},
	"gpt-4-turbo": {
		Name:    "gpt-4-turbo-2024-04-09",
		Pricing: llm.Pricing{InputPer1KTokens: 0.01, OutputPer1KTokens: 0.03},
	},
	"gpt-4o": {
		Name:    "gpt-4o-2024-05-13",
		Pricing: llm.Pricing{InputPer1KTokens: 0.005, OutputPer1KTokens: 0.015},
	},
	"gpt-4o-mini": {
		Name:    "gpt-4o-mini",
		Pricing: llm.Pricing{InputPer1KTokens: 0.0006, OutputPer1KTokens: 0.0024},
	},
}

// contextLength maps model name patterns to maximum context length,
// first match wins
var contextLength = []struct {
	pattern *regexp.Regexp
	value   int
}{
	{regexp.MustCompile(`^gpt-4o(-mini)?`), 128000},
	{regexp.MustCompile(`^gpt-4-turbo`), 128000},
	{regexp.MustCompile(`^gpt-4-32k`), 32768},
	{regexp.MustCompile(`^gpt-4`), 8192},
	{regexp.MustCompile(`^gpt-3\.5-turbo-16k`), 16384},
	{regexp.MustCompile(`^gpt-3\.5-turbo`), 4096},
	{regexp.MustCompile(`.*`), 4096}, // Default context length
}

// Client implements the llm.Client interface for OpenAI
type Client struct {
	client   *openai.Client
	model    string
	provider string
	pricing  llm.Pricing
	usage    llm.UsageTracker
}

// NewClient creates a new OpenAI client
func NewClient(config llm.ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, llm.NewConfigurationError("missing_api_key", "API key is required for OpenAI")
	}

	model := config.Model
	if model == "" {
		model = llm.DefaultOpenAIModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    resolveModel(model),
		provider: "openai",
		pricing:  pricingForModel(model),
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

// pricingForModel looks up pricing by friendly name or API identifier.
// Unknown models get zero pricing, so Cost reports zero rather than guessing.
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

// ChatCompletion performs a chat completion request
func (c *Client) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Convert our request to OpenAI format
	openaiReq := c.convertRequest(req)

	// Make the actual API call
	resp, err := c.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return nil, c.convertError(err)
	}

	// Convert response back to our format
	out := c.convertResponse(resp)
	c.usage.Record(out.Usage)
	return out, nil
}

// convertRequest converts our ChatRequest to OpenAI format
func (c *Client) convertRequest(req llm.ChatRequest) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = c.model
	} else {
		model = resolveModel(model)
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: convertMessages(req.Messages),
	}

	// Handle optional pointer fields
	if req.Temperature != nil {
		openaiReq.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		openaiReq.MaxTokens = *req.MaxTokens
	}
	if req.TopP != nil {
		openaiReq.TopP = *req.TopP
	}

	return openaiReq
}

// convertMessages converts our messages to OpenAI format
func convertMessages(messages []llm.Message) []openai.ChatCompletionMessage {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return openaiMessages
}

// convertResponse converts OpenAI response to our format
func (c *Client) convertResponse(resp openai.ChatCompletionResponse) *llm.ChatResponse {
	chatResp := &llm.ChatResponse{
		ID:    resp.ID,
		Model: resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	for _, choice := range resp.Choices {
		chatResp.Choices = append(chatResp.Choices, llm.Choice{
			Index: choice.Index,
			Message: llm.Message{
				Role:    llm.MessageRole(choice.Message.Role),
				Content: choice.Message.Content,
			},
			FinishReason: string(choice.FinishReason),
		})
	}

	return chatResp
}

// convertError maps go-openai errors onto the standardized error taxonomy
func (c *Client) convertError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &llm.Error{
			Code:       fmt.Sprintf("%v", apiErr.Code),
			Message:    apiErr.Message,
			Type:       llm.ErrorTypeProviderResponse,
			StatusCode: apiErr.HTTPStatusCode,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &llm.Error{
			Code:       "http_error",
			Message:    reqErr.Error(),
			Type:       llm.ErrorTypeProviderResponse,
			StatusCode: reqErr.HTTPStatusCode,
		}
	}

	// Anything else is a transport problem
	return llm.NewProviderRequestError("network_error", fmt.Sprintf("request failed: %v", err))
}

// GetModelInfo returns information about the model being used
func (c *Client) GetModelInfo() llm.ModelInfo {
	return llm.ModelInfo{
		Name:      c.model,
		Provider:  c.provider,
		MaxTokens: c.maxTokensForModel(c.model),
		Pricing:   c.pricing,
	}
}

// maxTokensForModel returns the context length for the given model
func (c *Client) maxTokensForModel(model string) int {
	for _, entry := range contextLength {
		if entry.pattern.MatchString(model) {
			return entry.value
		}
	}
	return 4096
}

// TokenUsage returns the accumulated token usage
func (c *Client) TokenUsage() llm.Usage {
	return c.usage.Total()
}

// Cost returns the accumulated cost in dollars
func (c *Client) Cost() float64 {
	return c.pricing.Cost(c.usage.Total())
}

// Close cleans up any resources used by the client
func (c *Client) Close() error {
	// OpenAI client doesn't require explicit cleanup
	return nil
}
