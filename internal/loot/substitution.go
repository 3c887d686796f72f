package loot

import (
	"fmt"
	"slices"
	"sync"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

// Substitutor grants exclusive write access to shared definitions for the
// duration of one substitution bracket.
type Substitutor struct {
	mu   sync.Mutex
	held map[string]string // definition path → dropper key holding it
}

// NewSubstitutor creates an empty substitutor.
func NewSubstitutor() *Substitutor {
	return &Substitutor{held: make(map[string]string, 4)}
}

// Bracket is an open substitution on one field of a shared definition.
// Revert restores the field and releases the definition.
type Bracket struct {
	owner    *Substitutor
	target   engine.Object
	field    string
	original any
	released bool
}

// Prepare overwrites target's pool-list field with entries and returns the
// bracket that restores it. Only one bracket per definition may be open.
func (s *Substitutor) Prepare(key string, target engine.Object, field string, entries []engine.PoolEntry) (*Bracket, error) {
	path := target.PathName()

	s.mu.Lock()
	if holder, ok := s.held[path]; ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s.%s held by %s: %w", path, field, holder, ErrBracketHeld)
	}
	s.held[path] = key
	s.mu.Unlock()

	b := &Bracket{
		owner:    s,
		target:   target,
		field:    field,
		original: target.Get(field),
	}
	target.Set(field, slices.Clone(entries))
	return b, nil
}

// Revert restores the original field value. Safe to call more than once.
func (b *Bracket) Revert() {
	if b == nil || b.released {
		return
	}
	b.released = true
	b.target.Set(b.field, b.original)

	b.owner.mu.Lock()
	delete(b.owner.held, b.target.PathName())
	b.owner.mu.Unlock()
}

// Substitute runs call with target's pool-list field redirected to entries.
// The field is restored on every exit path, including a panic in call.
func (s *Substitutor) Substitute(key string, target engine.Object, field string, item ItemPool, entries []engine.PoolEntry, call func() error) error {
	b, err := s.Prepare(key, target, field, entries)
	if err != nil {
		return err
	}
	defer b.Revert()

	if p, ok := item.(Preparer); ok {
		p.Prepare()
		defer p.Revert()
	}

	return call()
}

// Held reports whether a bracket is open on the definition at path.
func (s *Substitutor) Held(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.held[path]
	return ok
}
