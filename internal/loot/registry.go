package loot

import (
	"fmt"
	"strings"
	"sync"
)

// Registry is the arena of encounters. Lookups by name are linear scans;
// the catalog is small and static.
type Registry struct {
	mu         sync.RWMutex
	encounters []*Encounter
}

// NewRegistry creates a registry holding encounters in order.
func NewRegistry(encounters ...*Encounter) *Registry {
	r := &Registry{encounters: make([]*Encounter, 0, len(encounters))}
	for _, e := range encounters {
		r.Add(e)
	}
	return r
}

// Add appends an encounter. Fallback names are not resolved here, so
// encounters may reference ones added later.
func (r *Registry) Add(e *Encounter) {
	r.mu.Lock()
	r.encounters = append(r.encounters, e)
	r.mu.Unlock()

	e.mu.Lock()
	e.registry = r
	e.mu.Unlock()
}

// Len returns the number of encounters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.encounters)
}

// Encounters returns all encounters in catalog order.
func (r *Registry) Encounters() []*Encounter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Encounter, len(r.encounters))
	copy(out, r.encounters)
	return out
}

// Lookup returns the first encounter named name, or nil.
func (r *Registry) Lookup(name string) *Encounter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.encounters {
		if e.name == name {
			return e
		}
	}
	return nil
}

// Droppers returns every dropper of every encounter.
func (r *Registry) Droppers() []Dropper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Dropper
	for _, e := range r.encounters {
		out = append(out, e.droppers...)
	}
	return out
}

// Select returns the encounters whose tags are all enabled.
func (r *Registry) Select(enabled Tag) []*Encounter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Encounter
	for _, e := range r.encounters {
		if e.Included(enabled) {
			out = append(out, e)
		}
	}
	return out
}

// ValidationError collects every problem found by Validate.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("registry validation failed with %d error(s):\n  %s",
		len(e.Problems), strings.Join(msgs, "\n  "))
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error { return e.Problems }

// Validate checks dropper ownership and that every fallback name resolves to
// exactly one other encounter without cycles.
func (r *Registry) Validate() error {
	encounters := r.Encounters()
	ve := &ValidationError{}

	byName := make(map[string][]*Encounter, len(encounters))
	for _, e := range encounters {
		byName[e.name] = append(byName[e.name], e)
	}

	for _, e := range encounters {
		for _, d := range e.droppers {
			if d.Encounter() != e {
				ve.Problems = append(ve.Problems, fmt.Errorf("encounter %q: dropper %s: %w", e.name, d.Key(), ErrDropperBound))
			}
		}

		if e.fallback == "" {
			continue
		}
		switch targets := byName[e.fallback]; {
		case len(targets) == 0:
			ve.Problems = append(ve.Problems, fmt.Errorf("encounter %q: fallback %q: %w", e.name, e.fallback, ErrFallbackNotFound))
			continue
		case len(targets) > 1:
			ve.Problems = append(ve.Problems, fmt.Errorf("encounter %q: fallback %q: %w", e.name, e.fallback, ErrFallbackAmbiguous))
			continue
		}

		if err := checkChain(e, byName); err != nil {
			ve.Problems = append(ve.Problems, err)
		}
	}

	if len(ve.Problems) == 0 {
		return nil
	}
	return ve
}

// checkChain follows fallback names from e and reports a cycle.
func checkChain(e *Encounter, byName map[string][]*Encounter) error {
	seen := map[*Encounter]bool{e: true}
	cur := e
	for cur.fallback != "" {
		targets := byName[cur.fallback]
		if len(targets) != 1 {
			// reported on the encounter that owns the bad name
			return nil
		}
		cur = targets[0]
		if seen[cur] {
			return fmt.Errorf("encounter %q: %w", e.name, ErrFallbackCycle)
		}
		seen[cur] = true
	}
	return nil
}
