// Package factory provides provider registration and client creation for aibridge.
//
// This package manages the registration of LLM providers and provides factory
// methods to create clients. When imported, it automatically registers all
// built-in providers through the side effects of importing their packages.
//
// Key components:
//   - Provider registration system with thread-safe registry
//   - Factory for creating clients based on configuration
//   - Model-name based provider inference (ForModel)
//
// Example usage:
//
//	import (
//	    "github.com/krumsieklab/aibridge/pkg/factory"
//	    "github.com/krumsieklab/aibridge/pkg/llm"
//	)
//
//	factory := factory.New()
//	client, err := factory.CreateClient(llm.ClientConfig{
//	    Provider: "openai",
//	    Model:    "gpt-4o",
//	    APIKey:   "your-api-key",
//	})
package factory
