package sim

import (
	"strings"
	"sync"
)

// Object is an in-memory engine object with reflective fields.
type Object struct {
	mu     sync.RWMutex
	class  string
	path   string
	fields map[string]any
}

// NewObject creates a detached object. Use Engine.AddObject to make it findable.
func NewObject(class, path string, fields map[string]any) *Object {
	o := &Object{
		class:  class,
		path:   path,
		fields: make(map[string]any, len(fields)),
	}
	for k, v := range fields {
		o.fields[k] = v
	}
	return o
}

// Name returns the last component of the object path.
func (o *Object) Name() string {
	if i := strings.LastIndexAny(o.path, ".:"); i >= 0 {
		return o.path[i+1:]
	}
	return o.path
}

// PathName returns the full object path.
func (o *Object) PathName() string { return o.path }

// Class returns the engine class.
func (o *Object) Class() string { return o.class }

// Get reads a field.
func (o *Object) Get(field string) any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fields[field]
}

// Set writes a field.
func (o *Object) Set(field string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fields[field] = value
}
