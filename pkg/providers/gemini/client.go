package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/krumsieklab/aibridge/pkg/llm"
)

// safeIntToInt32 safely converts int to int32
func safeIntToInt32(val int) int32 {
	if val > 2147483647 {
		return 2147483647
	}
	if val < -2147483648 {
		return -2147483648
	}
	return int32(val)
}

// Client implements the llm.Client interface for Google Gemini
type Client struct {
	model    string
	provider string
	genai    *genai.Client
	usage    llm.UsageTracker
}

// NewClient creates a new Gemini client using the official Google Generative AI library.
func NewClient(config llm.ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, llm.NewConfigurationError("missing_api_key", "API key is required for Gemini")
	}

	model := config.Model
	if model == "" {
		model = llm.DefaultGeminiModel
	}

	genaiConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.Timeout > 0 {
		genaiConfig.HTTPOptions.Timeout = &config.Timeout
	}

	genaiClient, err := genai.NewClient(context.Background(), genaiConfig)
	if err != nil {
		return nil, llm.NewConfigurationError("client_creation_error", fmt.Sprintf("failed to create genai client: %v", err))
	}

	return &Client{
		model:    model,
		provider: "gemini",
		genai:    genaiClient,
	}, nil
}

// ChatCompletion performs a non-streaming content generation request.
func (c *Client) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	contents, system := c.convertMessages(req.Messages)
	if len(contents) == 0 {
		return nil, llm.NewConfigurationError("empty_messages", "request contains no user or assistant messages")
	}

	config := &genai.GenerateContentConfig{}
	if req.Temperature != nil {
		config.Temperature = req.Temperature
	}
	if req.TopP != nil {
		config.TopP = req.TopP
	}
	if req.MaxTokens != nil {
		config.MaxOutputTokens = safeIntToInt32(*req.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(system)},
		}
	}

	// All but the last message are history
	var history []*genai.Content
	if len(contents) > 1 {
		history = contents[:len(contents)-1]
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	chat, err := c.genai.Chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, c.convertError(err)
	}

	// The last message is the current turn
	lastContent := contents[len(contents)-1]
	parts := make([]genai.Part, len(lastContent.Parts))
	for i, part := range lastContent.Parts {
		parts[i] = *part
	}

	response, err := chat.SendMessage(ctx, parts...)
	if err != nil {
		return nil, c.convertError(err)
	}

	out := c.convertResponse(model, response)
	c.usage.Record(out.Usage)
	return out, nil
}

// convertMessages converts our messages to genai Content, lifting system
// messages out into a single system instruction string
func (c *Client) convertMessages(messages []llm.Message) ([]*genai.Content, string) {
	var contents []*genai.Content
	var systemParts []string

	for _, msg := range messages {
		if msg.Role == llm.RoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}

		role := genai.RoleUser
		if msg.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	return contents, strings.Join(systemParts, "\n")
}

// convertResponse converts a genai response to our format
func (c *Client) convertResponse(model string, resp *genai.GenerateContentResponse) *llm.ChatResponse {
	var text strings.Builder
	finishReason := llm.FinishReasonStop

	if len(resp.Candidates) > 0 {
		candidate := resp.Candidates[0]
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				text.WriteString(part.Text)
			}
		}
		if candidate.FinishReason == genai.FinishReasonMaxTokens {
			finishReason = llm.FinishReasonLength
		}
	}

	var usage llm.Usage
	if resp.UsageMetadata != nil {
		usage = llm.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return &llm.ChatResponse{
		ID:    resp.ResponseID,
		Model: model,
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      llm.NewTextMessage(llm.RoleAssistant, text.String()),
				FinishReason: finishReason,
			},
		},
		Usage: usage,
	}
}

// convertError maps genai SDK errors onto the standardized error taxonomy
func (c *Client) convertError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.Error{
			Code:       apiErr.Status,
			Message:    apiErr.Message,
			Type:       llm.ErrorTypeProviderResponse,
			StatusCode: apiErr.Code,
		}
	}
	return llm.NewProviderRequestError("network_error", fmt.Sprintf("request failed: %v", err))
}

// GetModelInfo returns information about the model being used
func (c *Client) GetModelInfo() llm.ModelInfo {
	maxTokens := 1000000 // Gemini 1.5 Flash context window
	if strings.Contains(c.model, "pro") {
		maxTokens = 2000000
	}

	return llm.ModelInfo{
		Name:      c.model,
		Provider:  c.provider,
		MaxTokens: maxTokens,
		Pricing:   llm.Pricing{},
	}
}

// TokenUsage returns the accumulated token usage
func (c *Client) TokenUsage() llm.Usage {
	return c.usage.Total()
}

// Cost returns the accumulated cost in dollars.
// No pricing catalog is maintained for Gemini yet, so this reports zero.
func (c *Client) Cost() float64 {
	return 0
}

// Close cleans up any resources used by the client
func (c *Client) Close() error {
	return nil
}
