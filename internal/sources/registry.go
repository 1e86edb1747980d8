// Package sources holds the Source Adapter implementations (C1) and the
// generic runner that drives any contracts.SourceAdapter against the
// Ingestor (C2). The registry/runner split follows normalizer's
// NormalizerRegistry plus game-stats-service's Orchestrator: a
// sync.RWMutex-guarded map of pluggable components, fanned out with one
// goroutine per component.
package sources

import (
	"fmt"
	"sync"

	"github.com/derdennis123/forecise/pkg/contracts"
)

// Registry holds the configured Source Adapters, keyed by slug.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]contracts.SourceAdapter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]contracts.SourceAdapter)}
}

// Register adds an adapter. It returns an error if the slug is already
// taken.
func (r *Registry) Register(adapter contracts.SourceAdapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slug := adapter.Slug()
	if _, exists := r.adapters[slug]; exists {
		return fmt.Errorf("source adapter %q is already registered", slug)
	}
	r.adapters[slug] = adapter
	return nil
}

// All returns every registered adapter, in no particular order.
func (r *Registry) All() []contracts.SourceAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contracts.SourceAdapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	return out
}
