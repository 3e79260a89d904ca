package provider

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Factory builds a provider client from its spec.
type Factory func(Spec) (Provider, error)

// buildProvider is the default factory covering the builtin providers.
func buildProvider(spec Spec) (Provider, error) {
	switch spec.Name {
	case "openai":
		return NewOpenAI(spec)
	case "groq":
		return NewGroq(spec)
	case "anthropic":
		return NewAnthropic(spec)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", spec.Name)
	}
}

// Chain tries providers in priority order until one succeeds. Client
// instances are built lazily and cached; the cache is the only shared
// mutable state and is guarded by a mutex, so a construction race can at
// worst rebuild a client, never duplicate a network call.
type Chain struct {
	specs   []Spec
	factory Factory

	mu        sync.Mutex
	instances map[string]Provider

	// lastUsed is observability-only. Per-request provider identity is
	// returned from Complete, never read back from here.
	lastUsed atomic.Value
}

// NewChain creates a chain from configuration using the builtin factory.
func NewChain(cfg *ChainConfig) (*Chain, error) {
	return NewChainWithFactory(cfg, buildProvider)
}

// NewChainWithFactory creates a chain with a custom provider factory.
func NewChainWithFactory(cfg *ChainConfig, factory Factory) (*Chain, error) {
	if cfg == nil || len(cfg.Providers) == 0 {
		return nil, ErrNoProviders
	}
	return &Chain{
		specs:     cfg.Providers,
		factory:   factory,
		instances: make(map[string]Provider),
	}, nil
}

// NewChainOf creates a chain over already-built providers, primary first.
func NewChainOf(providers ...Provider) (*Chain, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	c := &Chain{instances: make(map[string]Provider)}
	for _, p := range providers {
		c.specs = append(c.specs, Spec{Name: p.Name()})
		c.instances[p.Name()] = p
	}
	return c, nil
}

// ProviderNames returns the configured provider order.
func (c *Chain) ProviderNames() []string {
	names := make([]string, len(c.specs))
	for i, s := range c.specs {
		names[i] = s.Name
	}
	return names
}

// LastUsed returns the most recently successful provider name, best-effort.
func (c *Chain) LastUsed() string {
	if v := c.lastUsed.Load(); v != nil {
		return v.(string)
	}
	return ""
}

func (c *Chain) instance(spec Spec) (Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.instances[spec.Name]; ok {
		return p, nil
	}
	p, err := c.factory(spec)
	if err != nil {
		return nil, err
	}
	c.instances[spec.Name] = p
	return p, nil
}

// Complete runs the ordered attempt loop. It returns the payload and the
// name of the provider that produced it; once every provider has failed it
// returns a ChainError aggregating each failure.
func (c *Chain) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Payload, string, error) {
	var attempts []Attempt

	for _, spec := range c.specs {
		p, err := c.instance(spec)
		if err != nil {
			attempts = append(attempts, Attempt{Provider: spec.Name, Err: err})
			continue
		}

		payload, err := p.Complete(ctx, systemPrompt, userPrompt)
		if err != nil {
			attempts = append(attempts, Attempt{Provider: spec.Name, Err: err})
			continue
		}

		c.lastUsed.Store(spec.Name)
		return payload, spec.Name, nil
	}

	return nil, "", &ChainError{Attempts: attempts}
}
