package factory

import (
	"github.com/krumsieklab/aibridge/pkg/llm"
	"github.com/krumsieklab/aibridge/pkg/providers/anthropic"
	"github.com/krumsieklab/aibridge/pkg/providers/gemini"
	"github.com/krumsieklab/aibridge/pkg/providers/mock"
	"github.com/krumsieklab/aibridge/pkg/providers/ollama"
	"github.com/krumsieklab/aibridge/pkg/providers/openai"
)

// DefaultLMStudioBaseURL is the default endpoint of a local LM Studio server
const DefaultLMStudioBaseURL = "http://localhost:1234/v1"

func init() {
	// Register the OpenAI provider
	RegisterProvider("openai", func(config llm.ClientConfig) (llm.Client, error) {
		return openai.NewClient(config)
	})

	// Register the Anthropic provider
	RegisterProvider("anthropic", func(config llm.ClientConfig) (llm.Client, error) {
		return anthropic.NewClient(config)
	})

	// Register the gemini provider
	RegisterProvider("gemini", func(config llm.ClientConfig) (llm.Client, error) {
		return gemini.NewClient(config)
	})

	// Register the ollama provider
	RegisterProvider("ollama", func(config llm.ClientConfig) (llm.Client, error) {
		return ollama.NewClient(config)
	})

	// LM Studio exposes an OpenAI-compatible server on localhost
	RegisterProvider("lmstudio", func(config llm.ClientConfig) (llm.Client, error) {
		if config.BaseURL == "" {
			config.BaseURL = DefaultLMStudioBaseURL
		}
		if config.APIKey == "" {
			config.APIKey = "lm-studio"
		}
		return openai.NewClient(config)
	})

	// Register the mock provider
	RegisterProvider("mock", func(config llm.ClientConfig) (llm.Client, error) {
		return mock.NewClient(config.Model, "mock")
	})
	RegisterProvider("mocked", func(config llm.ClientConfig) (llm.Client, error) {
		return mock.NewClient(config.Model, "mock")
	})
}
