// Configuration types and environment loading
package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-haiku-20240307"
	DefaultGeminiModel    = "gemini-1.5-flash"
	DefaultOllamaModel    = "llama3.1"
)

const DefaultOllamaBaseURL = "http://localhost:11434"

const (
	DefaultTimeout       = 30 * time.Second
	DefaultOllamaTimeout = 60 * time.Second
)

// ClientConfig holds configuration for creating LLM clients.
// It is read-only after construction: clients copy what they need and never
// mutate it, so one config value can safely be shared across goroutines.
type ClientConfig struct {
	Provider   string            `json:"provider"` // openai, anthropic, ollama, gemini, etc.
	Model      string            `json:"model"`
	APIKey     string            `json:"api_key,omitempty"`
	BaseURL    string            `json:"base_url,omitempty"`
	Timeout    time.Duration     `json:"timeout,omitempty"`
	MaxRetries int               `json:"max_retries,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"` // Provider-specific configs
}

// LoadDotEnv loads environment variables from a .env file if one exists.
// Missing files are not an error; call this before ConfigFromEnv when
// credentials live in a dotfile rather than the process environment.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// parseTimeoutFromEnv parses timeout from environment variable with fallback to default
func parseTimeoutFromEnv(envVar string, defaultTimeout time.Duration) time.Duration {
	if timeoutStr := os.Getenv(envVar); timeoutStr != "" {
		if timeoutSecs, err := strconv.Atoi(timeoutStr); err == nil && timeoutSecs > 0 {
			return time.Duration(timeoutSecs) * time.Second
		}
	}
	return defaultTimeout
}

// ConfigFromEnv resolves a client configuration from environment variables.
// Providers are tried in priority order; the first one with credentials wins,
// falling back to a local Ollama instance when no API key is set.
func ConfigFromEnv() ClientConfig {
	// Priority 1: Custom OpenAI-compatible endpoint (highest priority if explicitly configured)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		fmt.Println("🔑 Using custom OpenAI-compatible API")
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			apiKey = "dummy" // Some endpoints don't require real keys
		}

		model := DefaultOpenAIModel
		if customModel := os.Getenv("OPENAI_MODEL"); customModel != "" {
			model = customModel
		}

		return ClientConfig{
			Provider: "openai",
			Model:    model,
			APIKey:   apiKey,
			BaseURL:  baseURL,
			Timeout:  parseTimeoutFromEnv("OPENAI_TIMEOUT", DefaultTimeout),
		}
	}

	// Priority 2: OpenAI API
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		fmt.Println("🔑 Using OpenAI API")
		model := DefaultOpenAIModel
		if customModel := os.Getenv("OPENAI_MODEL"); customModel != "" {
			model = customModel
		}

		return ClientConfig{
			Provider: "openai",
			Model:    model,
			APIKey:   apiKey,
			Timeout:  parseTimeoutFromEnv("OPENAI_TIMEOUT", DefaultTimeout),
		}
	}

	// Priority 3: Anthropic API
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		fmt.Println("🔑 Using Anthropic API")
		model := DefaultAnthropicModel
		if customModel := os.Getenv("ANTHROPIC_MODEL"); customModel != "" {
			model = customModel
		}

		return ClientConfig{
			Provider: "anthropic",
			Model:    model,
			APIKey:   apiKey,
			Timeout:  parseTimeoutFromEnv("ANTHROPIC_TIMEOUT", DefaultTimeout),
		}
	}

	// Priority 4: Gemini API
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		fmt.Println("🔑 Using Gemini API")
		model := DefaultGeminiModel
		if customModel := os.Getenv("GEMINI_MODEL"); customModel != "" {
			model = customModel
		}

		return ClientConfig{
			Provider: "gemini",
			Model:    model,
			APIKey:   apiKey,
			Timeout:  parseTimeoutFromEnv("GEMINI_TIMEOUT", DefaultTimeout),
		}
	}

	// Default: Ollama (local, free)
	model := DefaultOllamaModel
	if customModel := os.Getenv("OLLAMA_MODEL"); customModel != "" {
		model = customModel
	}
	baseURL := DefaultOllamaBaseURL
	if customURL := os.Getenv("OLLAMA_BASE_URL"); customURL != "" {
		baseURL = customURL
	}

	fmt.Printf("🔑 Using Ollama (local) at %s\n", baseURL)
	fmt.Println("💡 To use cloud providers: set OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY")

	return ClientConfig{
		Provider: "ollama",
		Model:    model,
		BaseURL:  baseURL,
		Timeout:  parseTimeoutFromEnv("OLLAMA_TIMEOUT", DefaultOllamaTimeout),
	}
}
