package steps

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jobatlas/jobatlas/pkg/domain"
)

// Registry manages the available expansion steps.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
	}
}

// Default returns a registry with every taxonomy and pipeline step
// registered.
func Default() *Registry {
	r := NewRegistry()
	registerTaxonomy(r)
	registerPipeline(r)
	return r
}

// Register adds a step to the registry. Registering a duplicate id or a step
// without a Build function is an error.
func (r *Registry) Register(s Step) error {
	if s.ID == "" {
		return fmt.Errorf("step has no id")
	}
	if s.Build == nil {
		return fmt.Errorf("step %s has no build function", s.ID)
	}
	if !s.ChildKind.Valid() {
		return fmt.Errorf("step %s has invalid child kind %q", s.ID, s.ChildKind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.steps[s.ID]; dup {
		return fmt.Errorf("step %s already registered", s.ID)
	}
	r.steps[s.ID] = s
	return nil
}

// Lookup returns the step for an id, or domain.ErrStepNotFound.
func (r *Registry) Lookup(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.steps[id]
	if !ok {
		return Step{}, fmt.Errorf("%w: %s", domain.ErrStepNotFound, id)
	}
	return s, nil
}

// IDs returns the registered step ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.steps))
	for id := range r.steps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks that every given step id has a registration. The engine
// calls this at startup so a missing step fails fast instead of mid-run.
func (r *Registry) Validate(required ...string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range required {
		if _, ok := r.steps[id]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrStepNotFound, id)
		}
	}
	return nil
}

// AllStepIDs lists every step id the engine dispatches to.
func AllStepIDs() []string {
	return []string{
		StepSectors,
		StepSubSectors,
		StepEndUsersProvider,
		StepEndUsersCustomer,
		StepJobsProvider,
		StepJobsCustomer,
		StepJobContexts,
		StepJobMap,
		StepDesiredOutcomes,
		StepThemedDesiredOutcomes,
		StepSituationalFactors,
		StepRelatedJobs,
		StepEmotionalJobs,
		StepSocialJobs,
		StepFinancialMetrics,
		StepIdealJobState,
		StepRootCauses,
	}
}

func mustRegister(r *Registry, s Step) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}
