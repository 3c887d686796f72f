package loot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lootrandomizer/internal/engine"
)

func TestEncounter_FallbackHint(t *testing.T) {
	w := newWorld()
	scorchPool := newTestPool(w.eng, "Scorch")
	ownPool := newTestPool(w.eng, "DigiScorch")

	digi := NewEncounter("Digistruct Scorch", EncounterConfig{Tags: TagDigistructEnemy, Fallback: "Scorch"})
	scorch := NewEncounter("Scorch", EncounterConfig{})
	reg := NewRegistry(digi, scorch) // fallback target added after the derived encounter
	require.NoError(t, reg.Validate())

	scorch.AssignPool(scorchPool)
	assert.True(t, digi.Derived())
	assert.False(t, digi.Assigned())

	hint, err := digi.HintPool()
	require.NoError(t, err)
	assert.Same(t, scorchPool.hint, hint)

	item, err := digi.Item()
	require.NoError(t, err)
	assert.Same(t, scorchPool, item)

	digi.AssignPool(ownPool)
	hint, err = digi.HintPool()
	require.NoError(t, err)
	assert.Same(t, ownPool.hint, hint)

	// later fallback assignments do not win back
	scorch.AssignPool(newTestPool(w.eng, "Other"))
	item, err = digi.Item()
	require.NoError(t, err)
	assert.Same(t, ownPool, item)
}

func TestEncounter_FallbackFollowsTargetAssignment(t *testing.T) {
	w := newWorld()
	a := NewEncounter("A", EncounterConfig{Fallback: "B"})
	b := NewEncounter("B", EncounterConfig{})
	NewRegistry(a, b)

	first := newTestPool(w.eng, "First")
	b.AssignPool(first)
	item, err := a.Item()
	require.NoError(t, err)
	assert.Same(t, first, item)

	second := newTestPool(w.eng, "Second")
	b.AssignPool(second)
	item, err = a.Item()
	require.NoError(t, err)
	assert.Same(t, second, item)
}

func TestEncounter_ItemErrors(t *testing.T) {
	t.Run("unassigned", func(t *testing.T) {
		e := NewEncounter("Boom", EncounterConfig{})
		NewRegistry(e)
		_, err := e.Item()
		assert.ErrorIs(t, err, ErrUnassigned)
	})

	t.Run("fallback target unassigned", func(t *testing.T) {
		a := NewEncounter("A", EncounterConfig{Fallback: "B"})
		b := NewEncounter("B", EncounterConfig{})
		NewRegistry(a, b)
		_, err := a.Item()
		assert.ErrorIs(t, err, ErrUnassigned)
	})

	t.Run("dangling fallback", func(t *testing.T) {
		a := NewEncounter("A", EncounterConfig{Fallback: "Missing"})
		NewRegistry(a)
		_, err := a.Item()
		assert.ErrorIs(t, err, ErrFallbackNotFound)
	})

	t.Run("outside registry", func(t *testing.T) {
		a := NewEncounter("A", EncounterConfig{Fallback: "B"})
		_, err := a.Item()
		assert.ErrorIs(t, err, ErrFallbackNotFound)
	})

	t.Run("cycle", func(t *testing.T) {
		a := NewEncounter("A", EncounterConfig{Fallback: "B"})
		b := NewEncounter("B", EncounterConfig{Fallback: "A"})
		NewRegistry(a, b)
		_, err := a.Item()
		assert.ErrorIs(t, err, ErrFallbackCycle)
	})

	t.Run("self", func(t *testing.T) {
		a := NewEncounter("A", EncounterConfig{Fallback: "A"})
		NewRegistry(a)
		_, err := a.Item()
		assert.ErrorIs(t, err, ErrFallbackCycle)
	})
}

func TestEncounter_PoolEntries(t *testing.T) {
	w := newWorld()
	pool := newTestPool(w.eng, "Boss")

	single := NewEncounter("Single", EncounterConfig{})
	single.AssignPool(pool)
	entries, err := single.PoolEntries()
	require.NoError(t, err)
	assert.Equal(t, []engine.PoolEntry{{Pool: pool.def, Probability: 1}}, entries)

	multi := NewEncounter("Multi", EncounterConfig{Rarities: []int{100, 50, 10}})
	multi.AssignPool(pool)
	entries, err = multi.PoolEntries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.InDelta(t, 1.0, entries[0].Probability, 1e-9)
	assert.InDelta(t, 0.5, entries[1].Probability, 1e-9)
	assert.InDelta(t, 0.1, entries[2].Probability, 1e-9)
	for _, e := range entries {
		assert.Same(t, pool.def, e.Pool)
	}
}

func TestRegistry_Validate(t *testing.T) {
	shared := NewPawnDropper("PawnBalance_Shared", PawnConfig{})
	first := NewEncounter("First", EncounterConfig{}, shared)
	stolen := NewEncounter("Stolen", EncounterConfig{}, shared)

	reg := NewRegistry(
		first,
		stolen,
		NewEncounter("Dangling", EncounterConfig{Fallback: "Nobody"}),
		NewEncounter("Twin", EncounterConfig{}),
		NewEncounter("Twin", EncounterConfig{}),
		NewEncounter("Ambiguous", EncounterConfig{Fallback: "Twin"}),
		NewEncounter("Loop A", EncounterConfig{Fallback: "Loop B"}),
		NewEncounter("Loop B", EncounterConfig{Fallback: "Loop A"}),
		NewEncounter("Fine", EncounterConfig{Fallback: "First"}),
	)

	err := reg.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 5)
	assert.ErrorIs(t, err, ErrDropperBound)
	assert.ErrorIs(t, err, ErrFallbackNotFound)
	assert.ErrorIs(t, err, ErrFallbackAmbiguous)
	assert.ErrorIs(t, err, ErrFallbackCycle)
	assert.Same(t, first, shared.Encounter())
}

func TestRegistry_Select(t *testing.T) {
	base := NewEncounter("Base", EncounterConfig{})
	dlc := NewEncounter("DLC", EncounterConfig{Tags: TagDragonKeep})
	raid := NewEncounter("Raid", EncounterConfig{Tags: TagDragonKeep | TagRaidEnemy})
	reg := NewRegistry(base, dlc, raid)

	assert.Equal(t, []*Encounter{base}, reg.Select(0))
	assert.Equal(t, []*Encounter{base, dlc}, reg.Select(TagDragonKeep))
	assert.Equal(t, []*Encounter{base, dlc, raid}, reg.Select(TagAll))
	assert.Same(t, dlc, reg.Lookup("DLC"))
	assert.Nil(t, reg.Lookup("Nope"))
}
