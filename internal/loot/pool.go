package loot

import "github.com/udisondev/lootrandomizer/internal/engine"

// ItemPool is a loot table assigned to an encounter by the allocator.
// The core never creates or destroys pools; it only reads and writes
// references to them.
type ItemPool interface {
	Name() string
	// Definition is the ItemPoolDefinition drops roll on.
	Definition() engine.Object
	// Hint is the ItemPoolDefinition shown when hinting at the pool contents.
	Hint() engine.Object
}

// Preparer is implemented by pools that must populate their definition right
// before a drop and restore it right after.
type Preparer interface {
	Prepare()
	Revert()
}
