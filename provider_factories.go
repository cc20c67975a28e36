package socialconnect

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-socialconnect/core"
	"github.com/goliatone/go-socialconnect/providers/instagram"
	"github.com/goliatone/go-socialconnect/transport"
)

func InstagramProvider(cfg instagram.Config) (core.Provider, error) {
	return instagram.New(cfg)
}

// NewInstagramClient builds a client for the Instagram catalog over the REST
// transport. opts may replace the transport.
func NewInstagramClient(cfg instagram.Config, opts ...Option) (*Client, error) {
	provider, err := instagram.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(provider, withDefaultTransport(opts)...)
}

func withDefaultTransport(opts []Option) []Option {
	out := make([]Option, 0, len(opts)+1)
	out = append(out, core.WithTransport(transport.NewRESTTransport(nil)))
	return append(out, opts...)
}

// ProviderFactory builds a provider descriptor on demand.
type ProviderFactory func() (core.Provider, error)

// ProviderRegistry resolves providers by name so hosts can select one from
// configuration. Names are case-insensitive.
type ProviderRegistry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{factories: map[string]ProviderFactory{}}
}

// DefaultProviderRegistry holds the bundled providers.
func DefaultProviderRegistry() *ProviderRegistry {
	registry := NewProviderRegistry()
	_ = registry.Register(instagram.ProviderName, func() (core.Provider, error) {
		return instagram.New(instagram.DefaultConfig())
	})
	return registry
}

func (r *ProviderRegistry) Register(name string, factory ProviderFactory) error {
	if r == nil {
		return fmt.Errorf("socialconnect: provider registry is nil")
	}
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return fmt.Errorf("socialconnect: provider name is required")
	}
	if factory == nil {
		return fmt.Errorf("socialconnect: provider %q factory is required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("socialconnect: provider %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

func (r *ProviderRegistry) Provider(name string) (core.Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("socialconnect: provider registry is nil")
	}
	name = strings.TrimSpace(strings.ToLower(name))
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("socialconnect: provider %q is not registered", name)
	}
	provider, err := factory()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("socialconnect: provider %q factory returned nil", name)
	}
	return provider, nil
}

// NewClient builds a REST backed client for the named provider.
func (r *ProviderRegistry) NewClient(name string, opts ...Option) (*Client, error) {
	provider, err := r.Provider(name)
	if err != nil {
		return nil, err
	}
	return NewClient(provider, withDefaultTransport(opts)...)
}

func (r *ProviderRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
