package loot

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

// Dropper is one concrete way an encounter's loot reaches the world. The set
// of variants is closed: pawn, behavior, map and interactive droppers.
type Dropper interface {
	// Key is the unique hook key of this dropper.
	Key() string
	// Encounter returns the owning encounter, or nil before binding.
	Encounter() *Encounter
	// Levels returns the level names the dropper is scoped to. Empty means
	// every level.
	Levels() []string
	// InScope reports whether the dropper should be active in level.
	InScope(level string) bool
	// Active reports whether the dropper's hooks are installed.
	Active() bool
	// Activate installs the dropper's hooks. Calling it on an active dropper
	// has no effect.
	Activate(sc *SessionContext)
	// Deactivate removes the dropper's hooks. Calling it on an inactive
	// dropper has no effect.
	Deactivate()

	bind(e *Encounter) bool
}

// paramClaim marks the call params of an engine call some dropper has already
// substituted. It never reaches the original function.
const paramClaim = "LootRandomizer.Claim"

// SessionContext is what an activated dropper may touch during a level.
type SessionContext struct {
	Engine         engine.Engine
	Level          string
	Substitutor    *Substitutor
	Classification *Classification
}

// base carries state common to every dropper variant.
type base struct {
	key    string
	levels []string

	mu     sync.Mutex
	owner  *Encounter
	active bool
	sc     *SessionContext
}

func (b *base) init(levels []string) {
	b.key = "LootRandomizer." + uuid.NewString()
	b.levels = slices.Clone(levels)
}

func (b *base) Key() string { return b.key }

func (b *base) Encounter() *Encounter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owner
}

func (b *base) Levels() []string { return slices.Clone(b.levels) }

func (b *base) InScope(level string) bool {
	return len(b.levels) == 0 || slices.Contains(b.levels, level)
}

func (b *base) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

func (b *base) bind(e *Encounter) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.owner != nil {
		return b.owner == e
	}
	b.owner = e
	return true
}

// begin marks the dropper active. It returns false if it already was.
func (b *base) begin(sc *SessionContext) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active {
		return false
	}
	b.active = true
	b.sc = sc
	return true
}

// end marks the dropper inactive and returns the context it ran with, or nil
// if it was not active.
func (b *base) end() *SessionContext {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.active {
		return nil
	}
	sc := b.sc
	b.active = false
	b.sc = nil
	return sc
}

func (b *base) session() *SessionContext {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sc
}

func (b *base) encounterName() string {
	if e := b.Encounter(); e != nil {
		return e.name
	}
	return ""
}

// contain runs a hook body and turns a panic into a suppressed call, so a
// fault in one dropper never reaches the engine.
func (b *base) contain(function string, body func() bool) (proceed bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("dropper hook panicked",
				"encounter", b.encounterName(),
				"dropper", b.key,
				"function", function,
				"panic", r)
			proceed = false
		}
	}()
	return body()
}

// substitute redirects field of target to the encounter's pool, runs the
// original function once and suppresses the original call that follows.
// When there is nothing to substitute the original runs unmodified. Only the
// first dropper to substitute an engine call drops for it; later matches on
// the same call are reported and left out.
func (b *base) substitute(target engine.Object, field string, caller engine.Object, fn engine.Function, params engine.Params) bool {
	e := b.Encounter()
	sc := b.session()
	if e == nil || sc == nil || target == nil {
		return true
	}

	item, err := e.Item()
	if err != nil {
		slog.Debug("no pool to substitute", "encounter", e.name, "error", err)
		return true
	}

	if owner, ok := params[paramClaim].(string); ok && owner != b.key {
		slog.Error("engine call matched by several droppers",
			"encounter", e.name,
			"dropper", b.key,
			"owner", owner,
			"function", fn.Name(),
			"caller", engine.PathName(caller),
			"error", ErrEventClaimed)
		return true
	}
	if params != nil {
		params[paramClaim] = b.key
	}
	args := maps.Clone(params)
	delete(args, paramClaim)

	called := false
	err = sc.Substitutor.Substitute(b.key, target, field, item, e.entriesFor(item), func() error {
		called = true
		return fn.Call(caller, args)
	})
	if err == nil {
		return false
	}

	if !called {
		if errors.Is(err, ErrBracketHeld) {
			slog.Error("substitution re-entered", "encounter", e.name, "target", target.PathName(), "error", err)
		} else {
			slog.Warn("substitution not applied", "encounter", e.name, "target", target.PathName(), "error", err)
		}
		return true
	}

	// оригинал уже отработал с подменённым списком, второй вызов не нужен
	slog.Warn("engine call failed during substitution",
		"encounter", e.name,
		"function", fn.Name(),
		"error", fmt.Errorf("substituting %s.%s: %w", target.PathName(), field, err))
	return false
}
