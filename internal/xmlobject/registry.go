package xmlobject

import (
	"errors"
	"fmt"
	"sync"
)

// ErrRegistryFrozen is returned when registering into a frozen registry
var ErrRegistryFrozen = errors.New("builder registry is frozen")

// Registry maps qualified names to the builders that construct them.
// Registration is a setup step: once Freeze is called the registry is
// read-only and safe to share between goroutines.
type Registry struct {
	mu       sync.RWMutex
	builders map[QName]Builder
	fallback Builder
	frozen   bool
}

// NewRegistry creates a registry whose fallback builds generic elements
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[QName]Builder),
		fallback: ElementBuilder,
	}
}

// Register adds a builder for a qualified name. The prefix of name is ignored.
func (r *Registry) Register(name QName, builder Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register %s: %w", name, ErrRegistryFrozen)
	}
	if builder == nil {
		return fmt.Errorf("register %s: builder is nil", name)
	}
	if _, exists := r.builders[name.key()]; exists {
		return fmt.Errorf("builder for %s already registered", name)
	}

	r.builders[name.key()] = builder
	return nil
}

// SetFallback replaces the builder used for names with no registration
func (r *Registry) SetFallback(builder Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("set fallback: %w", ErrRegistryFrozen)
	}
	if builder == nil {
		return fmt.Errorf("set fallback: builder is nil")
	}
	r.fallback = builder
	return nil
}

// Freeze ends the setup phase; later registrations fail
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Lookup returns the builder registered for name
func (r *Registry) Lookup(name QName) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.builders[name.key()]
	return b, ok
}

// BuilderFor returns the registered builder for name, or the fallback
func (r *Registry) BuilderFor(name QName) Builder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.builders[name.key()]; ok {
		return b
	}
	return r.fallback
}

// Names returns every registered name
func (r *Registry) Names() []QName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]QName, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	return names
}
