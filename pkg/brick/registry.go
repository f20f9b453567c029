package brick

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps canonical names to the specs that produced them. It is
// append-only for the life of a run and safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	specs map[Name]Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[Name]Spec)}
}

// Register names spec and records it. A name already present is rejected
// with ErrDuplicateName and the existing entry is left untouched.
func (r *Registry) Register(spec Spec) (Name, error) {
	name := NameFor(spec)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.specs[name]; ok {
		return name, fmt.Errorf("brick: register %s: %w", name, ErrDuplicateName)
	}
	r.specs[name] = spec
	return name, nil
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name Name) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[name]
	return s, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []Name {
	r.mu.RLock()
	names := make([]Name, 0, len(r.specs))
	for n := range r.specs {
		names = append(names, n)
	}
	r.mu.RUnlock()

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Len returns the number of registered bricks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}
