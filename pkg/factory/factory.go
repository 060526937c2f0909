package factory

import (
	"fmt"
	"strings"

	"github.com/krumsieklab/aibridge/pkg/llm"
)

const DefaultProvider = "openai"

// Factory creates LLM clients based on configuration
type Factory struct{}

// New creates a new client factory
func New() *Factory {
	return &Factory{}
}

// CreateClient creates an LLM client based on the configuration
func (f *Factory) CreateClient(config llm.ClientConfig) (llm.Client, error) {
	// Default to "openai" if provider is empty for backward compatibility
	provider := config.Provider
	if provider == "" {
		provider = DefaultProvider
	}
	provider = strings.ToLower(provider)

	// Validate required fields
	if config.Model == "" {
		return nil, llm.NewConfigurationError("missing_model", "model is required")
	}
	// Use the provider registry to create clients
	constructor, exists := GetProvider(provider)
	if !exists {
		return nil, llm.NewConfigurationError("unsupported_provider",
			fmt.Sprintf("unsupported provider: %s", provider))
	}

	return constructor(config)
}

// ForModel creates a client by inferring the provider from the model name.
// Model names carry a recognizable provider prefix: "gpt-" models go to
// OpenAI, "claude" models to Anthropic, "gemini" models to Gemini, and
// "llama" or "mistral" models to a local Ollama server.
func ForModel(model string, apiKey string) (llm.Client, error) {
	provider, err := InferProvider(model)
	if err != nil {
		return nil, err
	}
	return New().CreateClient(llm.ClientConfig{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
	})
}

// InferProvider maps a model name to the provider that serves it
func InferProvider(model string) (string, error) {
	name := strings.ToLower(model)
	switch {
	case strings.HasPrefix(name, "gpt-"):
		return "openai", nil
	case strings.HasPrefix(name, "claude"):
		return "anthropic", nil
	case strings.HasPrefix(name, "gemini"):
		return "gemini", nil
	case strings.HasPrefix(name, "llama"), strings.HasPrefix(name, "mistral"):
		return "ollama", nil
	default:
		return "", llm.NewConfigurationError("unknown_model",
			fmt.Sprintf("cannot infer provider for model: %s", model))
	}
}
