// Package assign connects the external pool allocator to the loot core:
// it resolves pool definitions in the engine and assigns them to encounters.
package assign

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/lootrandomizer/internal/engine"
	"github.com/udisondev/lootrandomizer/internal/loot"
)

var (
	ErrPoolNotFound     = errors.New("item pool definition not found")
	ErrUnknownEncounter = errors.New("unknown encounter")
)

// Pool is an item pool backed by engine definitions.
type Pool struct {
	name       string
	definition engine.Object
	hint       engine.Object
}

var _ loot.ItemPool = (*Pool)(nil)

// NewPool resolves definition and hint paths. An empty hint reuses the
// definition.
func NewPool(eng engine.Engine, name, definition, hint string) (*Pool, error) {
	def := eng.FindObject(engine.ClassItemPoolDefinition, definition)
	if def == nil {
		return nil, fmt.Errorf("pool %q: %s: %w", name, definition, ErrPoolNotFound)
	}

	hintDef := def
	if hint != "" {
		hintDef = eng.FindObject(engine.ClassItemPoolDefinition, hint)
		if hintDef == nil {
			return nil, fmt.Errorf("pool %q hint: %s: %w", name, hint, ErrPoolNotFound)
		}
	}

	if name == "" {
		name = def.Name()
	}
	return &Pool{name: name, definition: def, hint: hintDef}, nil
}

func (p *Pool) Name() string              { return p.name }
func (p *Pool) Definition() engine.Object { return p.definition }
func (p *Pool) Hint() engine.Object       { return p.hint }

// Assignment maps one encounter to one pool.
type Assignment struct {
	Encounter  string `yaml:"encounter"`
	Pool       string `yaml:"pool"`       // display name
	Definition string `yaml:"definition"` // ItemPoolDefinition path
	Hint       string `yaml:"hint"`
}

// File is an assignment document produced by the allocator.
type File struct {
	Seed        int64        `yaml:"seed"`
	Assignments []Assignment `yaml:"assignments"`
}

// LoadFile reads an assignment document.
func LoadFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("reading assignments %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing assignments %s: %w", path, err)
	}
	return f, nil
}

// Apply assigns pools to the named encounters. Rows that fail are skipped
// and reported together; the rest are still applied.
func Apply(reg *loot.Registry, eng engine.Engine, rows []Assignment) (int, error) {
	var errs []error
	applied := 0
	for _, row := range rows {
		e := reg.Lookup(row.Encounter)
		if e == nil {
			errs = append(errs, fmt.Errorf("assignment %q: %w", row.Encounter, ErrUnknownEncounter))
			continue
		}
		pool, err := NewPool(eng, row.Pool, row.Definition, row.Hint)
		if err != nil {
			errs = append(errs, fmt.Errorf("assignment %q: %w", row.Encounter, err))
			continue
		}
		e.AssignPool(pool)
		applied++
	}

	slog.Info("pool assignments applied", "applied", applied, "failed", len(errs))
	return applied, errors.Join(errs...)
}
