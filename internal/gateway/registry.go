package gateway

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

// Factory builds a gateway bound to the engine's callbacks.
type Factory func(deps Dependencies) (Gateway, error)

// Registry maps gateway names to factories. It is built during process
// bootstrap and handed to the engine.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register fails if name is empty or already taken.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" || factory == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "gateway name and factory are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeInvalidParameter, "gateway %q already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Create builds the gateway registered under name.
func (r *Registry) Create(name string, deps Dependencies) (Gateway, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrCodeGatewayNotFound, "gateway %q not registered", name)
	}

	gw, err := factory(deps)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeGatewayLoginFailed, err, "failed to create gateway %q", name)
	}

	return gw, nil
}

// Names returns the registered gateway names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
