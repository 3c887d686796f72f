package loot

import "sync"

// Classification is level-scoped bookkeeping used to tell apart spawns that
// reach the engine through the same mechanism. Droppers mark and query it;
// only the SessionManager clears it, at level enter and exit.
type Classification struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

// NewClassification creates empty classification state.
func NewClassification() *Classification {
	return &Classification{sets: make(map[string]map[string]struct{}, 2)}
}

// Mark records id in the named set.
func (c *Classification) Mark(set, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sets[set]
	if !ok {
		s = make(map[string]struct{}, 8)
		c.sets[set] = s
	}
	s[id] = struct{}{}
}

// Marked reports whether id is in the named set. A nil Classification
// marks nothing.
func (c *Classification) Marked(set, id string) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.sets[set][id]
	return ok
}

// Len returns the size of the named set.
func (c *Classification) Len(set string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sets[set])
}

// Empty reports whether no identity is marked in any set.
func (c *Classification) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.sets {
		if len(s) > 0 {
			return false
		}
	}
	return true
}

func (c *Classification) clear() {
	c.mu.Lock()
	clear(c.sets)
	c.mu.Unlock()
}
