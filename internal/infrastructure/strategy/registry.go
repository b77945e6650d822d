// Package strategy registers the interchangeable tax strategies used by the calculator.
package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/invoicer/backend/internal/domain/invoice"
	"github.com/invoicer/backend/internal/domain/shared"
)

// Registry manages tax strategy registrations
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]invoice.TaxStrategy
	defaultTax string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]invoice.TaxStrategy)}
}

// Register adds a strategy under its Name
func (r *Registry) Register(s invoice.TaxStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.strategies[name]; exists {
		return fmt.Errorf("%w: tax strategy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.strategies[name] = s
	return nil
}

// SetDefault marks a registered strategy as the default
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[name]; !exists {
		return fmt.Errorf("%w: tax strategy '%s' not found", shared.ErrNotFound, name)
	}
	r.defaultTax = name
	return nil
}

// Get returns a strategy by name, or the default when name is empty
func (r *Registry) Get(name string) (invoice.TaxStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaultTax
		if name == "" {
			return nil, fmt.Errorf("%w: no default tax strategy set", shared.ErrNotFound)
		}
	}
	s, exists := r.strategies[name]
	if !exists {
		return nil, fmt.Errorf("%w: tax strategy '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// Names returns the registered strategy names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
