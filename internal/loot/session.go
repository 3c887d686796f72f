package loot

import (
	"log/slog"
	"sync"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

// SessionManager activates the droppers in scope of the loaded level and
// owns the level's classification state.
type SessionManager struct {
	engine   engine.Engine
	registry *Registry
	subst    *Substitutor
	cls      *Classification

	mu      sync.Mutex
	enabled Tag
	level   string
	loaded bool
	active []Dropper
}

// NewSessionManager creates a manager with no level loaded.
func NewSessionManager(eng engine.Engine, reg *Registry) *SessionManager {
	return &SessionManager{
		engine:   eng,
		registry: reg,
		subst:    NewSubstitutor(),
		cls:      NewClassification(),
		enabled:  TagAll,
	}
}

// Enable limits activation to encounters whose tags are all within enabled.
// Fallbacks still resolve against the whole registry. Takes effect on the
// next level enter.
func (m *SessionManager) Enable(enabled Tag) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
}

// NotifyLevelEntered activates every dropper in scope of level. A level
// still loaded is unloaded first.
func (m *SessionManager) NotifyLevelEntered(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		slog.Debug("level entered without exit", "previous", m.level, "level", level)
		m.unload()
	}
	m.cls.clear()

	sc := &SessionContext{
		Engine:         m.engine,
		Level:          level,
		Substitutor:    m.subst,
		Classification: m.cls,
	}
	for _, e := range m.registry.Select(m.enabled) {
		for _, d := range e.droppers {
			if !d.InScope(level) {
				continue
			}
			d.Activate(sc)
			m.active = append(m.active, d)
		}
	}
	m.level = level
	m.loaded = true

	slog.Info("level loaded", "level", level, "droppers", len(m.active))
}

// NotifyLevelExited deactivates the droppers of level and clears the
// classification state. An exit for a level that is not loaded still clears
// the classification state but leaves the droppers of the loaded level active.
func (m *SessionManager) NotifyLevelExited(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded || m.level != level {
		slog.Warn("exit for level not loaded", "level", level, "current", m.level)
		m.cls.clear()
		return
	}
	m.unload()
	slog.Info("level unloaded", "level", level)
}

// Shutdown unloads the current level, if any.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		m.unload()
	}
}

func (m *SessionManager) unload() {
	for _, d := range m.active {
		d.Deactivate()
	}
	m.active = nil
	m.cls.clear()
	m.level = ""
	m.loaded = false
}

// CurrentLevel returns the loaded level, or "".
func (m *SessionManager) CurrentLevel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Loaded reports whether a level is loaded.
func (m *SessionManager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// ActiveDroppers returns the droppers activated for the current level.
func (m *SessionManager) ActiveDroppers() []Dropper {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Dropper, len(m.active))
	copy(out, m.active)
	return out
}

// Classification returns the level-scoped classification state.
func (m *SessionManager) Classification() *Classification { return m.cls }

// Substitutor returns the bracket guard shared by all droppers.
func (m *SessionManager) Substitutor() *Substitutor { return m.subst }
