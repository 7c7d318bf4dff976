package analysis

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"GoIK/internal/dict"
	"GoIK/internal/segmenter"
)

// Names of the built-in analyzers.
const (
	SmartName  = "ik_smart"
	GreedyName = "ik_greedy"
)

// Registry manages analyzer instances by name.
type Registry struct {
	analyzers map[string]Analyzer
	mu        sync.RWMutex
}

// NewRegistry creates a Registry with ik_smart and ik_greedy registered.
// Both use base for everything except the Smart flag.
func NewRegistry(d *dict.Dictionary, base segmenter.Config, logger *slog.Logger) *Registry {
	smart, greedy := base, base
	smart.Smart = true
	greedy.Smart = false

	r := &Registry{
		analyzers: make(map[string]Analyzer),
	}
	r.analyzers[SmartName] = NewIKAnalyzer(d, smart, logger)
	r.analyzers[GreedyName] = NewIKAnalyzer(d, greedy, logger)
	return r
}

// Get returns the analyzer registered under the given name.
func (r *Registry) Get(name string) (Analyzer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyzers[name]
	if !ok {
		return nil, fmt.Errorf("unknown analyzer: %q", name)
	}
	return a, nil
}

// Register adds a custom analyzer to the registry.
func (r *Registry) Register(name string, a Analyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.analyzers[name]; exists {
		return fmt.Errorf("analyzer already registered: %q", name)
	}
	r.analyzers[name] = a
	return nil
}

// Names returns the names of all registered analyzers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
