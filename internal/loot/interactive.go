package loot

import (
	"log/slog"
	"slices"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

// InteractiveConfig describes which attachment slots of a container's loot
// entries receive which pool.
type InteractiveConfig struct {
	PrimarySlot   int
	CurrencySlots []int
	// CurrencyPool is the ItemPoolDefinition path written to CurrencySlots,
	// and to PrimarySlot while the encounter has no pool.
	CurrencyPool string
	Levels       []string
}

// InteractiveDropper rewrites the attachment slots of a static container when
// its level loads. The rewrite is the final state and is not restored.
type InteractiveDropper struct {
	base
	path string
	cfg  InteractiveConfig
}

var _ Dropper = (*InteractiveDropper)(nil)

// NewInteractiveDropper creates a dropper for the interactive object balance
// at path.
func NewInteractiveDropper(path string, cfg InteractiveConfig) *InteractiveDropper {
	d := &InteractiveDropper{path: path, cfg: cfg}
	d.cfg.CurrencySlots = slices.Clone(cfg.CurrencySlots)
	d.init(cfg.Levels)
	return d
}

// Path returns the container balance path.
func (d *InteractiveDropper) Path() string { return d.path }

// Activate rewrites the container slots.
func (d *InteractiveDropper) Activate(sc *SessionContext) {
	if !d.begin(sc) {
		return
	}
	d.contain("Activate", func() bool {
		d.rewrite(sc.Engine)
		return true
	})
}

// Deactivate marks the dropper inactive.
func (d *InteractiveDropper) Deactivate() { d.end() }

func (d *InteractiveDropper) rewrite(eng engine.Engine) {
	container := eng.FindObject(engine.ClassInteractiveBalance, d.path)
	if container == nil {
		slog.Debug("interactive container not loaded", "encounter", d.encounterName(), "path", d.path)
		return
	}

	money := eng.FindObject(engine.ClassItemPoolDefinition, d.cfg.CurrencyPool)
	primary := money
	if e := d.Encounter(); e != nil {
		if item, err := e.Item(); err == nil {
			primary = item.Definition()
		}
	}

	rewritten := 0
	for _, loot := range engine.ObjectsField(container, engine.FieldLoot) {
		slots := engine.ObjectsField(loot, engine.FieldItemAttachments)
		if setSlot(slots, d.cfg.PrimarySlot, primary) {
			rewritten++
		}
		for _, slot := range d.cfg.CurrencySlots {
			if setSlot(slots, slot, money) {
				rewritten++
			}
		}
	}
	slog.Debug("interactive container rewritten", "encounter", d.encounterName(), "path", d.path, "slots", rewritten)
}

func setSlot(slots []engine.Object, i int, pool engine.Object) bool {
	if pool == nil || i < 0 || i >= len(slots) || slots[i] == nil {
		return false
	}
	slots[i].Set(engine.FieldItemPool, pool)
	return true
}
