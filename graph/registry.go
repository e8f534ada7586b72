package graph

import (
	"sort"
	"sync"
)

// PredictorRegistry provides named predictor lookup for manifest-driven
// graph construction.
type PredictorRegistry struct {
	mu         sync.RWMutex
	predictors map[string]Predictor
}

// NewPredictorRegistry creates a new empty PredictorRegistry.
func NewPredictorRegistry() *PredictorRegistry {
	return &PredictorRegistry{predictors: make(map[string]Predictor)}
}

// Register adds a predictor under its identifier.
func (r *PredictorRegistry) Register(p Predictor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predictors[p.Identifier()] = p
}

// Get retrieves a predictor by identifier.
func (r *PredictorRegistry) Get(identifier string) (Predictor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.predictors[identifier]
	return p, ok
}

// List returns sorted identifiers of all registered predictors.
func (r *PredictorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.predictors))
	for name := range r.predictors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
