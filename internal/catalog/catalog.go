// Package catalog builds the encounter registry from a declarative YAML
// catalog. The default catalog is embedded; a file on disk may replace it.
package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/lootrandomizer/internal/loot"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// MoneyPool fills the currency slots of interactive containers.
const MoneyPool = "GD_Itempools.AmmoAndResourcePools.Pool_Money_1_BIG"

var defaultCurrencySlots = []int{1, 2, 3, 8, 9, 10, 11}

// File is the catalog document.
type File struct {
	Encounters []EncounterSpec `yaml:"encounters"`
}

// EncounterSpec describes one encounter.
type EncounterSpec struct {
	Name     string        `yaml:"name"`
	Tags     []string      `yaml:"tags"`
	Mission  string        `yaml:"mission"`
	Rarities []int         `yaml:"rarities"`
	Fallback string        `yaml:"fallback"`
	Droppers []DropperSpec `yaml:"droppers"`
}

// DropperSpec describes one dropper. Exactly one of Pawn, Behavior, Custom
// and Interactive is set.
type DropperSpec struct {
	// Pawn
	Pawn      string `yaml:"pawn"`
	Transform int    `yaml:"transform"`
	Evolved   int    `yaml:"evolved"`
	Filter    string `yaml:"filter"`

	// Behavior
	Behavior string `yaml:"behavior"`
	Inject   *bool  `yaml:"inject"` // default true

	// Custom session hook
	Custom string `yaml:"custom"`

	// Interactive container
	Interactive   string `yaml:"interactive"`
	PrimarySlot   int    `yaml:"primary_slot"`
	CurrencySlots []int  `yaml:"currency_slots"`
	CurrencyPool  string `yaml:"currency_pool"`

	Levels []string `yaml:"levels"`
}

// Default builds the registry from the embedded catalog.
func Default() (*loot.Registry, error) {
	return Parse(defaultCatalog)
}

// LoadFile builds the registry from a catalog file. An empty path selects the
// embedded catalog.
func LoadFile(path string) (*loot.Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes a catalog document and builds a validated registry.
func Parse(data []byte) (*loot.Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return Build(f)
}

// Build turns catalog specs into encounters and validates the result.
func Build(f File) (*loot.Registry, error) {
	reg := loot.NewRegistry()
	droppers := 0
	for i, es := range f.Encounters {
		e, err := buildEncounter(es)
		if err != nil {
			return nil, fmt.Errorf("encounter %d (%q): %w", i, es.Name, err)
		}
		reg.Add(e)
		droppers += len(es.Droppers)
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("encounter catalog built", "encounters", reg.Len(), "droppers", droppers)
	return reg, nil
}

func buildEncounter(es EncounterSpec) (*loot.Encounter, error) {
	tags, err := loot.ParseTags(es.Tags)
	if err != nil {
		return nil, err
	}

	droppers := make([]loot.Dropper, 0, len(es.Droppers))
	for j, ds := range es.Droppers {
		d, err := buildDropper(ds)
		if err != nil {
			return nil, fmt.Errorf("dropper %d: %w", j, err)
		}
		droppers = append(droppers, d)
	}

	return loot.NewEncounter(es.Name, loot.EncounterConfig{
		Tags:     tags,
		Mission:  es.Mission,
		Rarities: es.Rarities,
		Fallback: es.Fallback,
	}, droppers...), nil
}

func buildDropper(ds DropperSpec) (loot.Dropper, error) {
	set := 0
	for _, s := range []string{ds.Pawn, ds.Behavior, ds.Custom, ds.Interactive} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, ErrBadDropper
	}

	switch {
	case ds.Pawn != "":
		cfg := loot.PawnConfig{
			Transform: ds.Transform,
			Evolved:   ds.Evolved,
			Levels:    ds.Levels,
		}
		if ds.Filter != "" {
			f, ok := filters[ds.Filter]
			if !ok {
				return nil, fmt.Errorf("filter %q: %w", ds.Filter, ErrUnknownFilter)
			}
			cfg.Filter = f
		}
		return loot.NewPawnDropper(ds.Pawn, cfg), nil

	case ds.Behavior != "":
		inject := ds.Inject == nil || *ds.Inject
		return loot.NewBehaviorDropper(ds.Behavior, inject, ds.Levels...), nil

	case ds.Custom != "":
		h, ok := hooks[ds.Custom]
		if !ok {
			return nil, fmt.Errorf("hook %q: %w", ds.Custom, ErrUnknownHook)
		}
		levels := ds.Levels
		if len(levels) == 0 {
			levels = []string{h.level}
		}
		return loot.NewMapDropper(h.build(), levels...), nil

	default:
		cfg := loot.InteractiveConfig{
			PrimarySlot:   ds.PrimarySlot,
			CurrencySlots: ds.CurrencySlots,
			CurrencyPool:  ds.CurrencyPool,
			Levels:        ds.Levels,
		}
		if cfg.CurrencySlots == nil {
			cfg.CurrencySlots = defaultCurrencySlots
		}
		if cfg.CurrencyPool == "" {
			cfg.CurrencyPool = MoneyPool
		}
		return loot.NewInteractiveDropper(ds.Interactive, cfg), nil
	}
}
