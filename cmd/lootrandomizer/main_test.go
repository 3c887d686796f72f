package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lootrandomizer/internal/assign"
	"github.com/udisondev/lootrandomizer/internal/catalog"
	"github.com/udisondev/lootrandomizer/internal/engine"
	"github.com/udisondev/lootrandomizer/internal/engine/sim"
	"github.com/udisondev/lootrandomizer/internal/loot"
)

func testRegistry() *loot.Registry {
	return loot.NewRegistry(
		loot.NewEncounter("Scorch", loot.EncounterConfig{},
			loot.NewPawnDropper("PawnBalance_SpiderantScorch", loot.PawnConfig{})),
		loot.NewEncounter("Digistruct Scorch", loot.EncounterConfig{
			Tags:     loot.TagDigistructPeak | loot.TagDigistructEnemy,
			Fallback: "Scorch",
		}, loot.NewPawnDropper("PawnBalance_SpiderantScorch_Digi", loot.PawnConfig{})),
		loot.NewEncounter("Boll", loot.EncounterConfig{},
			loot.NewPawnDropper("PawnBalance_Boll", loot.PawnConfig{})),
	)
}

func TestSeedSummary(t *testing.T) {
	eng := sim.New()
	eng.AddObject(engine.ClassItemPoolDefinition, "GD_Itempools.Runnables.Pool_Scorch", nil)

	reg := testRegistry()
	_, err := assign.Apply(reg, eng, []assign.Assignment{{
		Encounter:  "Scorch",
		Pool:       "Hellfire",
		Definition: "GD_Itempools.Runnables.Pool_Scorch",
	}})
	require.NoError(t, err)

	out := seedSummary(4242, loot.TagAll, reg)
	assert.True(t, strings.HasPrefix(out, "Seed 4242\nTags: "))
	assert.Contains(t, out, "Scorch: Hellfire\n")
	assert.Contains(t, out, "Digistruct Scorch: Hellfire\n")
	assert.NotContains(t, out, "Boll")

	out = seedSummary(4242, 0, reg)
	assert.Contains(t, out, "Tags: none\n")
	assert.NotContains(t, out, "Digistruct Scorch")
}

func TestSeedSummary_FallbackOutsideSelection(t *testing.T) {
	reg, err := catalog.Default()
	require.NoError(t, err)

	eng := sim.New()
	eng.AddObject(engine.ClassItemPoolDefinition, "GD_Itempools.Runnables.Pool_BlackQueen", nil)
	_, err = assign.Apply(reg, eng, []assign.Assignment{{
		Encounter:  "The Black Queen",
		Pool:       "Black Queen",
		Definition: "GD_Itempools.Runnables.Pool_BlackQueen",
	}})
	require.NoError(t, err)

	digi := loot.TagDigistructPeak | loot.TagDigistructEnemy
	for _, e := range reg.Select(digi) {
		assert.NotEqual(t, "The Black Queen", e.Name())
	}

	item, err := reg.Lookup("Digistruct Black Queen").Item()
	require.NoError(t, err)
	assert.Equal(t, "Black Queen", item.Name())

	out := seedSummary(7, digi, reg)
	assert.Contains(t, out, "Digistruct Black Queen: Black Queen\n")
	assert.NotContains(t, out, "\nThe Black Queen:")
}
