package loot

import (
	"github.com/udisondev/lootrandomizer/internal/engine"
	"github.com/udisondev/lootrandomizer/internal/engine/sim"
)

// testPool: простой пул для тестов
type testPool struct {
	name string
	def  engine.Object
	hint engine.Object
}

func (p *testPool) Name() string              { return p.name }
func (p *testPool) Definition() engine.Object { return p.def }
func (p *testPool) Hint() engine.Object       { return p.hint }

func newTestPool(eng *sim.Engine, name string) *testPool {
	return &testPool{
		name: name,
		def:  eng.AddObject(engine.ClassItemPoolDefinition, "GD_Lootables.Pool_"+name, nil),
		hint: eng.AddObject(engine.ClassItemPoolDefinition, "GD_Lootables.Hint_"+name, nil),
	}
}

// preparingPool records the order of Prepare/Revert relative to the drop.
type preparingPool struct {
	*testPool
	calls []string
}

func (p *preparingPool) Prepare() { p.calls = append(p.calls, "prepare") }
func (p *preparingPool) Revert()  { p.calls = append(p.calls, "revert") }

// world is a minimal level fixture: one vanilla pool and helpers to add
// pawn balances and scripted behaviors reading from it.
type world struct {
	eng     *sim.Engine
	vanilla *sim.Object
}

func newWorld() *world {
	eng := sim.New()
	return &world{
		eng:     eng,
		vanilla: eng.AddObject(engine.ClassItemPoolDefinition, "GD_Itempools.EnemyDropPools.Pool_GunsAndGear", nil),
	}
}

func (w *world) vanillaList() []engine.PoolEntry {
	return []engine.PoolEntry{{Pool: w.vanilla, Probability: 1}}
}

func (w *world) balance(name string) *sim.Object {
	return w.eng.AddObject(engine.ClassAIPawnBalanceDefinition, "GD_Balance."+name, map[string]any{
		engine.FieldDefaultItemPoolList: w.vanillaList(),
	})
}

func (w *world) pawn(path string, balance engine.Object, extra map[string]any) *sim.Object {
	fields := map[string]any{engine.FieldBalanceDefinition: balance}
	for k, v := range extra {
		fields[k] = v
	}
	return w.eng.AddPawn(engine.ClassWillowAIPawn, path, fields)
}

func (w *world) behavior(path string) *sim.Object {
	return w.eng.AddObject(engine.ClassBehaviorSpawnItems, path, map[string]any{
		engine.FieldItemPoolList: w.vanillaList(),
	})
}

func (w *world) session(level string) *SessionContext {
	return &SessionContext{
		Engine:         w.eng,
		Level:          level,
		Substitutor:    NewSubstitutor(),
		Classification: NewClassification(),
	}
}
