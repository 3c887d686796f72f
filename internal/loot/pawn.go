package loot

import (
	"log/slog"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

// PawnFilter narrows a pawn dropper to individual pawns.
// cls is the current level's classification state.
type PawnFilter func(pawn engine.Object, cls *Classification) bool

// PawnConfig carries the optional matching data of a pawn dropper.
type PawnConfig struct {
	// Transform, when set, matches only pawns at exactly this transform level.
	Transform int
	// Evolved, when set, matches only pawns below this transform level.
	Evolved int
	Filter  PawnFilter
	Levels  []string
}

// PawnDropper substitutes the drop of enemies whose balance definition has
// the configured name.
type PawnDropper struct {
	base
	balance   string
	transform int
	evolved   int
	filter    PawnFilter
}

var _ Dropper = (*PawnDropper)(nil)

// NewPawnDropper creates a dropper matching pawns of balance definition name.
func NewPawnDropper(balance string, cfg PawnConfig) *PawnDropper {
	d := &PawnDropper{
		balance:   balance,
		transform: cfg.Transform,
		evolved:   cfg.Evolved,
		filter:    cfg.Filter,
	}
	d.init(cfg.Levels)
	return d
}

// Balance returns the matched balance definition name.
func (d *PawnDropper) Balance() string { return d.balance }

// Activate hooks pawn death.
func (d *PawnDropper) Activate(sc *SessionContext) {
	if !d.begin(sc) {
		return
	}
	sc.Engine.RunHook(engine.FuncPawnDied, d.key, d.onDied)
}

// Deactivate unhooks pawn death.
func (d *PawnDropper) Deactivate() {
	sc := d.end()
	if sc == nil {
		return
	}
	sc.Engine.RemoveHook(engine.FuncPawnDied, d.key)
}

// ShouldTrigger reports whether pawn belongs to this dropper.
func (d *PawnDropper) ShouldTrigger(pawn engine.Object) bool {
	balance := engine.ObjectField(pawn, engine.FieldBalanceDefinition)
	if balance == nil || balance.Name() != d.balance {
		return false
	}

	level := engine.IntField(pawn, engine.FieldTransformLevel)
	if d.transform > 0 && level != d.transform {
		return false
	}
	if d.evolved > 0 && level >= d.evolved {
		return false
	}

	if d.filter != nil {
		var cls *Classification
		if sc := d.session(); sc != nil {
			cls = sc.Classification
		}
		return d.filter(pawn, cls)
	}
	return true
}

// Inject substitutes the pool list of the pawn's balance definition around
// the death call.
func (d *PawnDropper) Inject(pawn engine.Object, fn engine.Function, params engine.Params) bool {
	balance := engine.ObjectField(pawn, engine.FieldBalanceDefinition)
	return d.substitute(balance, engine.FieldDefaultItemPoolList, pawn, fn, params)
}

func (d *PawnDropper) onDied(caller engine.Object, fn engine.Function, params engine.Params) bool {
	return d.contain(fn.Name(), func() bool {
		if !d.ShouldTrigger(caller) {
			return true
		}
		slog.Debug("pawn matched", "encounter", d.encounterName(), "pawn", caller.PathName())
		return d.Inject(caller, fn, params)
	})
}
