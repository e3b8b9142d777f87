package action

import (
	"sort"
	"sync"

	apperrors "github.com/kbukum/dataprep/errors"
)

// Factory creates a fresh action instance.
type Factory func() Action

// Descriptor describes a registered action.
type Descriptor struct {
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	Parameters []Parameter `json:"parameters"`
}

// Registry maps action names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Names are unique.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return apperrors.AlreadyExists("action", name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is Register that panics on duplicates.
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// New instantiates the named action.
func (r *Registry) New(name string) (Action, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound("action", name)
	}
	return f(), nil
}

// Get returns the factory registered under name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// List returns sorted names of all registered actions.
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

// Describe returns a descriptor per registered action, sorted by name.
func (r *Registry) Describe() []Descriptor {
	names := r.List()
	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		a, err := r.New(name)
		if err != nil {
			continue
		}
		out = append(out, Descriptor{Name: a.Name(), Category: a.Category(), Parameters: a.Parameters()})
	}
	return out
}
