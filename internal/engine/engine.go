// Package engine describes the capability surface the loot core consumes from
// the host game engine binding: keyed function hooks, object lookup and
// construction, reflective field access and direct invocation of engine
// functions. The binding itself lives outside this module.
package engine

// Object is an opaque handle to an engine object.
type Object interface {
	// Name returns the short object name (last path component).
	Name() string
	// PathName returns the fully qualified object path, unique per object.
	PathName() string
	// Class returns the engine class name of the object.
	Class() string
	// Get reads a field. Missing fields read as nil.
	Get(field string) any
	// Set writes a field.
	Set(field string, value any)
}

// Params carries named arguments of an engine function call.
type Params map[string]any

// Function is an engine function that can be invoked directly, bypassing hooks.
type Function interface {
	Name() string
	Call(caller Object, params Params) error
}

// HookFunc is invoked before the hooked engine function runs.
// Returning false suppresses the original function for this call. Every hook
// of one call receives the same non-nil Params value.
type HookFunc func(caller Object, fn Function, params Params) bool

// Engine is the host capability surface.
type Engine interface {
	// RunHook registers fn under key for the named function. Registering the
	// same key twice replaces the previous hook.
	RunHook(function, key string, fn HookFunc)
	// RemoveHook unregisters the hook stored under key. Unknown keys are ignored.
	RemoveHook(function, key string)
	// FindObject returns the object of the given class at path, or nil.
	FindObject(class, path string) Object
	// ConstructObject creates a transient object of the given class.
	ConstructObject(class string) Object
	// Function looks up an engine function by its qualified name, or nil.
	Function(name string) Function
	// WorldPawns returns the pawns of the currently loaded world.
	WorldPawns() []Object
}

// PoolEntry is one element of an item-pool list field: the pool a drop
// rolls on and the probability this copy drops at all.
type PoolEntry struct {
	Pool        Object
	Probability float64
}

// Vector is an engine 3D vector.
type Vector struct {
	X, Y, Z float64
}
