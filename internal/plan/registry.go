package plan

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultStrategy is the name of the shipped greedy policy.
const DefaultStrategy = "greedy"

// Registry maps strategy names to implementations and tracks which one is
// active. Each planning session owns its own Registry; there is no process-
// wide selection, so switching strategy in one session cannot leak into
// another.
type Registry struct {
	mu         sync.Mutex
	strategies map[string]Strategy
	active     string
}

// NewRegistry returns a registry preloaded with the default greedy strategy,
// which starts active.
func NewRegistry() *Registry {
	r := &Registry{strategies: map[string]Strategy{}}
	r.Register(DefaultStrategy, greedyStrategy{})
	r.active = DefaultStrategy
	return r
}

// Register adds (or replaces) a named strategy.
func (r *Registry) Register(name string, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[name] = s
}

// Use selects the active strategy by name.
func (r *Registry) Use(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[name]; !ok {
		return fmt.Errorf("unknown strategy: %s", name)
	}
	r.active = name
	return nil
}

// Active returns the currently selected strategy.
func (r *Registry) Active() Strategy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.strategies[r.active]
}

// ActiveName returns the name of the currently selected strategy.
func (r *Registry) ActiveName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Names lists registered strategy names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.strategies))
	for n := range r.strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
