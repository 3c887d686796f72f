package loot

import (
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

// BehaviorDropper substitutes the drop of one scripted Behavior_SpawnItems
// object, identified by its full path.
type BehaviorDropper struct {
	base
	path     string
	injects  bool
	observed atomic.Int64
}

var _ Dropper = (*BehaviorDropper)(nil)

// NewBehaviorDropper creates a dropper for the behavior at path. With inject
// false the dropper only observes its event and leaves the drop unmodified.
func NewBehaviorDropper(path string, inject bool, levels ...string) *BehaviorDropper {
	d := &BehaviorDropper{path: path, injects: inject}
	d.init(levels)
	return d
}

// Path returns the matched behavior path.
func (d *BehaviorDropper) Path() string { return d.path }

// Injects reports whether matched events are substituted.
func (d *BehaviorDropper) Injects() bool { return d.injects }

// Observed returns how many matching events the dropper has seen.
func (d *BehaviorDropper) Observed() int64 { return d.observed.Load() }

// Activate hooks the spawn-items behavior.
func (d *BehaviorDropper) Activate(sc *SessionContext) {
	if !d.begin(sc) {
		return
	}
	sc.Engine.RunHook(engine.FuncSpawnItems, d.key, d.onSpawnItems)
}

// Deactivate unhooks the spawn-items behavior.
func (d *BehaviorDropper) Deactivate() {
	sc := d.end()
	if sc == nil {
		return
	}
	sc.Engine.RemoveHook(engine.FuncSpawnItems, d.key)
}

// ShouldTrigger reports whether behavior is the one this dropper watches.
func (d *BehaviorDropper) ShouldTrigger(behavior engine.Object) bool {
	return engine.PathName(behavior) == d.path
}

// Inject substitutes the behavior's own pool list around the call.
func (d *BehaviorDropper) Inject(behavior engine.Object, fn engine.Function, params engine.Params) bool {
	return d.substitute(behavior, engine.FieldItemPoolList, behavior, fn, params)
}

func (d *BehaviorDropper) onSpawnItems(caller engine.Object, fn engine.Function, params engine.Params) bool {
	return d.contain(fn.Name(), func() bool {
		if !d.ShouldTrigger(caller) {
			return true
		}
		d.observed.Add(1)
		if !d.injects {
			slog.Debug("behavior observed", "encounter", d.encounterName(), "behavior", d.path)
			return true
		}
		return d.Inject(caller, fn, params)
	})
}
