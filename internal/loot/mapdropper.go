package loot

import (
	"fmt"
	"slices"
	"sync"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

// SessionHook is custom per-level logic for encounters whose loot does not
// reach the world through a regular pawn death or scripted spawn.
type SessionHook interface {
	EnteredMap(mc *MapContext)
	ExitedMap(mc *MapContext)
}

// MapDropper hands level enter and exit to a SessionHook.
type MapDropper struct {
	base
	hook SessionHook

	hmu       sync.Mutex
	functions []string // functions hooked through the MapContext
}

var _ Dropper = (*MapDropper)(nil)

// NewMapDropper creates a dropper driven by hook in the given levels.
func NewMapDropper(hook SessionHook, levels ...string) *MapDropper {
	d := &MapDropper{hook: hook}
	d.init(levels)
	return d
}

// Hook returns the session hook.
func (d *MapDropper) Hook() SessionHook { return d.hook }

// Activate runs the hook's level-enter logic.
func (d *MapDropper) Activate(sc *SessionContext) {
	if !d.begin(sc) {
		return
	}
	mc := &MapContext{d: d, sc: sc}
	d.contain("EnteredMap", func() bool {
		d.hook.EnteredMap(mc)
		return true
	})
}

// Deactivate runs the hook's level-exit logic and removes any engine hook it
// left installed.
func (d *MapDropper) Deactivate() {
	sc := d.end()
	if sc == nil {
		return
	}
	mc := &MapContext{d: d, sc: sc}
	d.contain("ExitedMap", func() bool {
		d.hook.ExitedMap(mc)
		return true
	})

	d.hmu.Lock()
	leftover := d.functions
	d.functions = nil
	d.hmu.Unlock()
	for _, fn := range leftover {
		sc.Engine.RemoveHook(fn, d.key)
	}
}

// MapContext is the view of the session a SessionHook works through.
type MapContext struct {
	d  *MapDropper
	sc *SessionContext
}

// Engine returns the host engine.
func (mc *MapContext) Engine() engine.Engine { return mc.sc.Engine }

// Encounter returns the encounter owning the dropper.
func (mc *MapContext) Encounter() *Encounter { return mc.d.Encounter() }

// Classification returns the level's classification state.
func (mc *MapContext) Classification() *Classification { return mc.sc.Classification }

// Key returns the dropper's hook key.
func (mc *MapContext) Key() string { return mc.d.key }

// Level returns the loaded level.
func (mc *MapContext) Level() string { return mc.sc.Level }

// RunHook hooks function under the dropper's key. Panics in fn are contained
// and suppress the original call.
func (mc *MapContext) RunHook(function string, fn engine.HookFunc) {
	d := mc.d
	d.hmu.Lock()
	if !slices.Contains(d.functions, function) {
		d.functions = append(d.functions, function)
	}
	d.hmu.Unlock()

	mc.sc.Engine.RunHook(function, d.key, func(caller engine.Object, f engine.Function, params engine.Params) bool {
		return d.contain(function, func() bool {
			return fn(caller, f, params)
		})
	})
}

// RemoveHook unhooks function.
func (mc *MapContext) RemoveHook(function string) {
	d := mc.d
	d.hmu.Lock()
	if i := slices.Index(d.functions, function); i >= 0 {
		d.functions = slices.Delete(d.functions, i, i+1)
	}
	d.hmu.Unlock()
	mc.sc.Engine.RemoveHook(function, d.key)
}

// Substitute runs call with field of target redirected to the encounter's
// pool. The field is restored before Substitute returns.
func (mc *MapContext) Substitute(target engine.Object, field string, call func() error) error {
	e := mc.d.Encounter()
	if e == nil {
		return fmt.Errorf("dropper %s: %w", mc.d.key, ErrUnassigned)
	}
	if target == nil {
		return fmt.Errorf("encounter %q: substitution target is nil", e.name)
	}
	item, err := e.Item()
	if err != nil {
		return err
	}
	return mc.sc.Substitutor.Substitute(mc.d.key, target, field, item, e.entriesFor(item), call)
}
