// Package sim is an in-memory host engine. Hooks, objects and the stock drop
// functions behave like the game binding closely enough to drive the loot core
// in tests and in scripted replays: a drop reads the shared pool-list field at
// the moment the original function runs.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

// ErrNoFunction is returned when an engine function has no implementation.
var ErrNoFunction = errors.New("engine function not implemented")

// MethodFunc implements an engine function.
type MethodFunc func(e *Engine, caller engine.Object, params engine.Params) error

// Drop is one materialized loot event.
type Drop struct {
	Function string
	Source   string // path of the object whose pool list was read
	Context  string // path of the context object, if any
	Pools    []engine.PoolEntry
}

type hook struct {
	key string
	fn  engine.HookFunc
}

// Engine implements engine.Engine in memory.
// Hooks run on the dispatching goroutine without the engine lock held, so
// hooks may call back into the engine.
type Engine struct {
	mu      sync.Mutex
	hooks   map[string][]hook     // function → hooks in registration order
	objects map[string]*Object    // path → object
	methods map[string]MethodFunc // function → original implementation
	pawns   []engine.Object
	drops   []Drop
	seq     int
}

var _ engine.Engine = (*Engine)(nil)

// New creates an engine with the stock drop functions installed.
func New() *Engine {
	e := &Engine{
		hooks:   make(map[string][]hook, 8),
		objects: make(map[string]*Object, 64),
		methods: make(map[string]MethodFunc, 8),
	}

	e.methods[engine.FuncPawnDied] = pawnDied
	e.methods[engine.FuncSpawnItems] = spawnItems
	e.methods[engine.FuncSpawnLootAroundPoint] = spawnLootAroundPoint
	e.methods[engine.FuncVehiclePawnDied] = noop
	e.methods[engine.FuncUpdateMissionObjective] = noop
	e.methods[engine.FuncPublishPopulationSpawn] = noop

	return e
}

// RunHook registers fn under key, replacing an existing hook with the same key.
func (e *Engine) RunHook(function, key string, fn engine.HookFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()

	hs := e.hooks[function]
	for i := range hs {
		if hs[i].key == key {
			hs[i].fn = fn
			return
		}
	}
	e.hooks[function] = append(hs, hook{key: key, fn: fn})
}

// RemoveHook unregisters key from function.
func (e *Engine) RemoveHook(function, key string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	hs := e.hooks[function]
	for i := range hs {
		if hs[i].key == key {
			e.hooks[function] = slices.Delete(hs, i, i+1)
			return
		}
	}
}

// HookCount returns the number of hooks registered for function.
func (e *Engine) HookCount(function string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.hooks[function])
}

// TotalHooks returns the number of hooks across all functions.
func (e *Engine) TotalHooks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, hs := range e.hooks {
		n += len(hs)
	}
	return n
}

// HasHook reports whether key is registered for function.
func (e *Engine) HasHook(function, key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, h := range e.hooks[function] {
		if h.key == key {
			return true
		}
	}
	return false
}

// FindObject returns the object at path if its class matches. An empty class
// matches any object.
func (e *Engine) FindObject(class, path string) engine.Object {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.objects[path]
	if !ok || (class != "" && o.class != class) {
		return nil
	}
	return o
}

// ConstructObject creates a transient object.
func (e *Engine) ConstructObject(class string) engine.Object {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seq++
	o := NewObject(class, fmt.Sprintf("Transient.%s_%d", class, e.seq), nil)
	e.objects[o.path] = o
	return o
}

// Function returns a handle for an implemented engine function.
func (e *Engine) Function(name string) engine.Function {
	e.mu.Lock()
	_, ok := e.methods[name]
	e.mu.Unlock()
	if !ok {
		return nil
	}
	return &function{owner: e, name: name}
}

// WorldPawns returns the pawns added with AddPawn.
func (e *Engine) WorldPawns() []engine.Object {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.pawns)
}

// AddObject creates a findable object.
func (e *Engine) AddObject(class, path string, fields map[string]any) *Object {
	o := NewObject(class, path, fields)
	e.mu.Lock()
	e.objects[path] = o
	e.mu.Unlock()
	return o
}

// AddPawn creates a findable object and adds it to the world pawn list.
func (e *Engine) AddPawn(class, path string, fields map[string]any) *Object {
	o := e.AddObject(class, path, fields)
	e.mu.Lock()
	e.pawns = append(e.pawns, o)
	e.mu.Unlock()
	return o
}

// ClearWorld drops all world pawns, as a level unload does.
func (e *Engine) ClearWorld() {
	e.mu.Lock()
	e.pawns = nil
	e.mu.Unlock()
}

// Define installs or replaces the original implementation of function.
func (e *Engine) Define(function string, fn MethodFunc) {
	e.mu.Lock()
	e.methods[function] = fn
	e.mu.Unlock()
}

// Dispatch raises function as the game would: every registered hook runs in
// registration order with the same params, then the original runs unless a
// hook suppressed it.
func (e *Engine) Dispatch(name string, caller engine.Object, params engine.Params) error {
	e.mu.Lock()
	hs := slices.Clone(e.hooks[name])
	e.mu.Unlock()

	fn := &function{owner: e, name: name}
	if params == nil {
		params = engine.Params{}
	}

	proceed := true
	for _, h := range hs {
		if !h.fn(caller, fn, params) {
			proceed = false
		}
	}

	if !proceed {
		slog.Debug("engine call suppressed by hook", "function", name, "caller", engine.PathName(caller))
		return nil
	}
	return fn.Call(caller, params)
}

// Drops returns a copy of the drop log.
func (e *Engine) Drops() []Drop {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.drops)
}

// ResetDrops clears the drop log.
func (e *Engine) ResetDrops() {
	e.mu.Lock()
	e.drops = nil
	e.mu.Unlock()
}

func (e *Engine) recordDrop(function string, source, context engine.Object, pools []engine.PoolEntry) {
	d := Drop{
		Function: function,
		Source:   engine.PathName(source),
		Context:  engine.PathName(context),
		Pools:    slices.Clone(pools),
	}
	e.mu.Lock()
	e.drops = append(e.drops, d)
	e.mu.Unlock()
}

type function struct {
	owner *Engine
	name  string
}

func (f *function) Name() string { return f.name }

// Call invokes the original implementation without running hooks.
func (f *function) Call(caller engine.Object, params engine.Params) error {
	f.owner.mu.Lock()
	impl, ok := f.owner.methods[f.name]
	f.owner.mu.Unlock()
	if !ok {
		return fmt.Errorf("calling %s: %w", f.name, ErrNoFunction)
	}
	return impl(f.owner, caller, params)
}

func noop(*Engine, engine.Object, engine.Params) error { return nil }

func pawnDied(e *Engine, caller engine.Object, _ engine.Params) error {
	balance := engine.ObjectField(caller, engine.FieldBalanceDefinition)
	if balance == nil {
		return nil
	}
	e.recordDrop(engine.FuncPawnDied, balance, caller, engine.PoolsField(balance, engine.FieldDefaultItemPoolList))
	return nil
}

func spawnItems(e *Engine, caller engine.Object, params engine.Params) error {
	ctx, _ := params[engine.ParamContext].(engine.Object)
	e.recordDrop(engine.FuncSpawnItems, caller, ctx, engine.PoolsField(caller, engine.FieldItemPoolList))
	return nil
}

func spawnLootAroundPoint(e *Engine, caller engine.Object, params engine.Params) error {
	ctx, _ := params[engine.ParamContext].(engine.Object)
	e.recordDrop(engine.FuncSpawnLootAroundPoint, caller, ctx, engine.PoolsField(caller, engine.FieldItemPools))
	return nil
}
