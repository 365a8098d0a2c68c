package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a new provider instance
type Factory func(cfg *Config) (Provider, error)

// Registry manages available credential providers
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

var defaultRegistry = NewRegistry()

// Register adds a provider factory to the registry
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get creates a provider instance by name
func (r *Registry) Get(name string, cfg *Config) (Provider, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("provider not found: %s", name)
	}

	return factory(cfg)
}

// List returns all registered provider names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a provider is registered
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[name]
	return exists
}

// Register adds a provider factory to the default registry
func Register(name string, factory Factory) {
	defaultRegistry.Register(name, factory)
}

// GetProvider creates a provider from the default registry
func GetProvider(name string, cfg *Config) (Provider, error) {
	return defaultRegistry.Get(name, cfg)
}

// ListProviders returns the providers of the default registry
func ListProviders() []string {
	return defaultRegistry.List()
}

// IsRegistered checks the default registry
func IsRegistered(name string) bool {
	return defaultRegistry.IsRegistered(name)
}
