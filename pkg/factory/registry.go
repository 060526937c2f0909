package factory

import (
	"sort"
	"sync"

	"github.com/krumsieklab/aibridge/pkg/llm"
)

// ProviderConstructor builds a client from a resolved configuration
type ProviderConstructor func(config llm.ClientConfig) (llm.Client, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]ProviderConstructor{}
)

// RegisterProvider makes a constructor available under the given name.
// The built-in providers call this from init in imports.go, so importing
// this package is enough to have the full set available. Registering a
// name twice replaces the earlier constructor, which lets applications
// override a built-in provider with their own.
func RegisterProvider(name string, constructor ProviderConstructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = constructor
}

// GetProvider looks up a constructor by name
func GetProvider(name string) (ProviderConstructor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	constructor, ok := registry[name]
	return constructor, ok
}

// ListProviders returns the registered provider names, sorted so callers
// can print them in error messages and help output
func ListProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
