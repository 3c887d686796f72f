package loot

import (
	"fmt"
	"slices"
	"sync"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

// EncounterConfig carries the optional attributes of an encounter.
type EncounterConfig struct {
	Tags    Tag
	Mission string // mission the encounter belongs to, informational
	// Rarities holds one drop weight (percent) per copy of the loot event.
	Rarities []int
	// Fallback names the encounter whose pool is borrowed while none is
	// assigned to this one.
	Fallback string
}

// Encounter is a named logical loot source: a boss, an enemy type, a
// container or a scripted event. All of its droppers substitute the same
// assigned pool.
type Encounter struct {
	name     string
	droppers []Dropper
	tags     Tag
	mission  string
	rarities []int
	fallback string

	mu       sync.RWMutex
	item     ItemPool
	registry *Registry  // set by Registry.Add, lookup only
	resolved *Encounter // memoized fallback target
}

// NewEncounter creates an encounter and binds each dropper to it.
// A dropper already bound to another encounter keeps its first owner;
// Registry.Validate reports it.
func NewEncounter(name string, cfg EncounterConfig, droppers ...Dropper) *Encounter {
	e := &Encounter{
		name:     name,
		droppers: droppers,
		tags:     cfg.Tags,
		mission:  cfg.Mission,
		rarities: slices.Clone(cfg.Rarities),
		fallback: cfg.Fallback,
	}
	for _, d := range droppers {
		d.bind(e)
	}
	return e
}

// Name returns the display name.
func (e *Encounter) Name() string { return e.name }

// Tags returns the classification tags.
func (e *Encounter) Tags() Tag { return e.tags }

// Mission returns the mission gate, or "".
func (e *Encounter) Mission() string { return e.mission }

// Rarities returns a copy of the per-copy drop weights.
func (e *Encounter) Rarities() []int { return slices.Clone(e.rarities) }

// Droppers returns the encounter's droppers.
func (e *Encounter) Droppers() []Dropper { return slices.Clone(e.droppers) }

// Fallback returns the fallback encounter name, or "".
func (e *Encounter) Fallback() string { return e.fallback }

// Derived reports whether the encounter borrows its pool from a fallback.
func (e *Encounter) Derived() bool { return e.fallback != "" }

// Included reports whether every tag of the encounter is enabled.
func (e *Encounter) Included(enabled Tag) bool { return e.tags.Within(enabled) }

// AssignPool sets the encounter's own pool. Once set it overrides any
// fallback. A nil pool is ignored.
func (e *Encounter) AssignPool(pool ItemPool) {
	if pool == nil {
		return
	}
	e.mu.Lock()
	e.item = pool
	e.mu.Unlock()
}

// Assigned reports whether the encounter has its own pool.
func (e *Encounter) Assigned() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.item != nil
}

// Item returns the pool drops substitute: the encounter's own pool if
// assigned, otherwise the fallback encounter's item.
func (e *Encounter) Item() (ItemPool, error) {
	cur := e
	for steps := 0; ; steps++ {
		cur.mu.RLock()
		item, fallback, reg := cur.item, cur.fallback, cur.registry
		cur.mu.RUnlock()

		if item != nil {
			return item, nil
		}
		if fallback == "" {
			return nil, fmt.Errorf("encounter %q: %w", cur.name, ErrUnassigned)
		}
		if reg != nil && steps > reg.Len() {
			return nil, fmt.Errorf("encounter %q: %w", e.name, ErrFallbackCycle)
		}

		next, err := cur.fallbackEncounter()
		if err != nil {
			return nil, err
		}
		cur = next
	}
}

// HintPool returns the hint definition of the pool Item resolves to.
func (e *Encounter) HintPool() (engine.Object, error) {
	item, err := e.Item()
	if err != nil {
		return nil, err
	}
	return item.Hint(), nil
}

// PoolEntries builds the pool list written into shared definitions: one
// entry per rarity copy, or a single certain entry.
func (e *Encounter) PoolEntries() ([]engine.PoolEntry, error) {
	item, err := e.Item()
	if err != nil {
		return nil, err
	}
	return e.entriesFor(item), nil
}

func (e *Encounter) entriesFor(item ItemPool) []engine.PoolEntry {
	def := item.Definition()
	if len(e.rarities) == 0 {
		return []engine.PoolEntry{{Pool: def, Probability: 1}}
	}
	entries := make([]engine.PoolEntry, len(e.rarities))
	for i, w := range e.rarities {
		entries[i] = engine.PoolEntry{Pool: def, Probability: float64(w) / 100}
	}
	return entries
}

// fallbackEncounter resolves the fallback name against the registry on first
// use and memoizes the result.
func (e *Encounter) fallbackEncounter() (*Encounter, error) {
	e.mu.RLock()
	resolved, reg := e.resolved, e.registry
	e.mu.RUnlock()
	if resolved != nil {
		return resolved, nil
	}
	if reg == nil {
		return nil, fmt.Errorf("encounter %q: fallback %q outside a registry: %w", e.name, e.fallback, ErrFallbackNotFound)
	}

	target := reg.Lookup(e.fallback)
	if target == nil {
		return nil, fmt.Errorf("encounter %q: fallback %q: %w", e.name, e.fallback, ErrFallbackNotFound)
	}
	if target == e {
		return nil, fmt.Errorf("encounter %q: %w", e.name, ErrFallbackCycle)
	}

	e.mu.Lock()
	e.resolved = target
	e.mu.Unlock()
	return target, nil
}
