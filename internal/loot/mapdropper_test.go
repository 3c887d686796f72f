package loot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

const specialMidgets = "special_midgets"

// markingHook records every actor published by the population spawner.
type markingHook struct {
	entered, exited int
	keepHook        bool
}

func (h *markingHook) EnteredMap(mc *MapContext) {
	h.entered++
	mc.RunHook(engine.FuncPublishPopulationSpawn, func(_ engine.Object, _ engine.Function, params engine.Params) bool {
		if actor, ok := params[engine.ParamSpawnedActor].(engine.Object); ok {
			mc.Classification().Mark(specialMidgets, actor.PathName())
		}
		return true
	})
}

func (h *markingHook) ExitedMap(mc *MapContext) {
	h.exited++
	if !h.keepHook {
		mc.RemoveHook(engine.FuncPublishPopulationSpawn)
	}
}

func TestLootMidgetClassification(t *testing.T) {
	w := newWorld()
	genericPool := newTestPool(w.eng, "LootMidget")
	specialPool := newTestPool(w.eng, "DoctorsOrdersMidget")

	hook := &markingHook{}
	generic := NewPawnDropper("PawnBalance_LootMidget", PawnConfig{
		Filter: func(pawn engine.Object, cls *Classification) bool {
			return !cls.Marked(specialMidgets, pawn.PathName())
		},
	})
	special := NewPawnDropper("PawnBalance_LootMidget", PawnConfig{
		Filter: func(pawn engine.Object, cls *Classification) bool {
			return cls.Marked(specialMidgets, pawn.PathName())
		},
	})

	reg := NewRegistry(
		NewEncounter("Loot Midget", EncounterConfig{}, NewMapDropper(hook, "PandoraPark_P"), generic),
		NewEncounter("Doctor's Orders Midget", EncounterConfig{}, special),
	)
	reg.Lookup("Loot Midget").AssignPool(genericPool)
	reg.Lookup("Doctor's Orders Midget").AssignPool(specialPool)
	require.NoError(t, reg.Validate())

	balance := w.balance("PawnBalance_LootMidget")
	e7 := w.pawn("PandoraPark_P.WillowAIPawn_E7", balance, nil)
	e8 := w.pawn("PandoraPark_P.WillowAIPawn_E8", balance, nil)
	spawner := w.eng.AddObject(engine.ClassBehaviorPopulationSpawner, "GD_Box.Behavior_SpawnFromPopulationSystem_0", nil)

	m := NewSessionManager(w.eng, reg)
	m.NotifyLevelEntered("PandoraPark_P")
	assert.Equal(t, 1, hook.entered)
	assert.True(t, m.Classification().Empty())

	require.NoError(t, w.eng.Dispatch(engine.FuncPublishPopulationSpawn, spawner, engine.Params{
		engine.ParamSpawnedActor: e7,
	}))
	assert.True(t, m.Classification().Marked(specialMidgets, e7.PathName()))

	assert.False(t, generic.ShouldTrigger(e7))
	assert.True(t, special.ShouldTrigger(e7))
	assert.True(t, generic.ShouldTrigger(e8))
	assert.False(t, special.ShouldTrigger(e8))

	require.NoError(t, w.eng.Dispatch(engine.FuncPawnDied, e7, nil))
	require.NoError(t, w.eng.Dispatch(engine.FuncPawnDied, e8, nil))
	drops := w.eng.Drops()
	require.Len(t, drops, 2)
	assert.Same(t, specialPool.def, drops[0].Pools[0].Pool)
	assert.Same(t, genericPool.def, drops[1].Pools[0].Pool)

	m.NotifyLevelExited("PandoraPark_P")
	assert.Equal(t, 1, hook.exited)
	assert.True(t, m.Classification().Empty())
	assert.Equal(t, 0, w.eng.TotalHooks())

	m.NotifyLevelEntered("PandoraPark_P")
	assert.True(t, m.Classification().Empty())
	assert.True(t, generic.ShouldTrigger(e7))
}

func TestMapDropper_RemovesLeftoverHooks(t *testing.T) {
	w := newWorld()
	hook := &markingHook{keepHook: true}
	d := NewMapDropper(hook)
	NewEncounter("Registry", EncounterConfig{}, d)

	d.Activate(w.session("Level"))
	d.Activate(w.session("Level"))
	assert.Equal(t, 1, hook.entered)
	assert.True(t, w.eng.HasHook(engine.FuncPublishPopulationSpawn, d.Key()))

	d.Deactivate()
	d.Deactivate()
	assert.Equal(t, 1, hook.exited)
	assert.Equal(t, 0, w.eng.TotalHooks())
}

type panickingHook struct{}

func (panickingHook) EnteredMap(mc *MapContext) {
	mc.RunHook(engine.FuncVehiclePawnDied, func(engine.Object, engine.Function, engine.Params) bool {
		panic("bad hook")
	})
	panic("bad enter")
}

func (panickingHook) ExitedMap(*MapContext) { panic("bad exit") }

func TestMapDropper_ContainsPanics(t *testing.T) {
	w := newWorld()
	d := NewMapDropper(panickingHook{})
	NewEncounter("Truck", EncounterConfig{}, d)

	truck := w.eng.AddObject(engine.ClassWillowAIPawn, "Level.Truck_0", nil)
	require.NotPanics(t, func() {
		d.Activate(w.session("Level"))
		require.NoError(t, w.eng.Dispatch(engine.FuncVehiclePawnDied, truck, nil))
		d.Deactivate()
	})
	assert.Equal(t, 0, w.eng.TotalHooks())
}

func TestMapContext_Substitute(t *testing.T) {
	w := newWorld()
	pool := newTestPool(w.eng, "Worm")

	var seen []engine.PoolEntry
	var subErr error
	hook := &funcHook{enter: func(mc *MapContext) {
		spawner := mc.Engine().ConstructObject(engine.ClassSpawnLootAroundPoint)
		subErr = mc.Substitute(spawner, engine.FieldItemPools, func() error {
			seen = engine.PoolsField(spawner, engine.FieldItemPools)
			return nil
		})
	}}
	d := NewMapDropper(hook)
	enc := NewEncounter("Leviathan", EncounterConfig{}, d)

	d.Activate(w.session("Level"))
	assert.ErrorIs(t, subErr, ErrUnassigned)
	d.Deactivate()

	enc.AssignPool(pool)
	d.Activate(w.session("Level"))
	require.NoError(t, subErr)
	require.Len(t, seen, 1)
	assert.Same(t, pool.def, seen[0].Pool)
}

type funcHook struct {
	enter func(mc *MapContext)
}

func (h *funcHook) EnteredMap(mc *MapContext) { h.enter(mc) }
func (h *funcHook) ExitedMap(*MapContext)     {}
