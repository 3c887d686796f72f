package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lootrandomizer/internal/loot"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 50, reg.Len())

	bnk := reg.Lookup("BNK-3R")
	require.NotNil(t, bnk)
	assert.Equal(t, loot.TagSlowEnemy, bnk.Tags())
	droppers := bnk.Droppers()
	require.Len(t, droppers, 18)
	carrier, ok := droppers[0].(*loot.BehaviorDropper)
	require.True(t, ok)
	assert.True(t, carrier.Injects())
	for _, d := range droppers[1:] {
		assert.False(t, d.(*loot.BehaviorDropper).Injects())
	}

	digi := reg.Lookup("Digistruct Scorch")
	require.NotNil(t, digi)
	assert.Equal(t, "Scorch", digi.Fallback())
	assert.Equal(t, []int{50, 50}, digi.Rarities())

	levi := reg.Lookup("Leviathan")
	require.NotNil(t, levi)
	require.Len(t, levi.Droppers(), 1)
	assert.Equal(t, []string{"Orchid_WormBelly_P"}, levi.Droppers()[0].Levels())
	assert.Equal(t, "Treasure of the Sands", levi.Mission())

	goliath := reg.Lookup("GOD-liath")
	require.NotNil(t, goliath)
	assert.Len(t, goliath.Droppers(), 17)

	// every pawn dropper is in scope everywhere
	assert.True(t, reg.Lookup("Boom").Droppers()[0].InScope("AnyLevel_P"))
}

func TestDefault_Select(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	base := reg.Select(0)
	for _, e := range base {
		assert.Equal(t, loot.Tag(0), e.Tags(), e.Name())
	}
	assert.Len(t, reg.Select(loot.TagAll), reg.Len())
	assert.Less(t, len(base), len(reg.Select(loot.TagSlowEnemy)))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "two kinds",
			doc:  "encounters:\n  - name: X\n    droppers:\n      - pawn: A\n        behavior: B\n",
			want: ErrBadDropper,
		},
		{
			name: "empty dropper",
			doc:  "encounters:\n  - name: X\n    droppers:\n      - levels: [A]\n",
			want: ErrBadDropper,
		},
		{
			name: "unknown hook",
			doc:  "encounters:\n  - name: X\n    droppers:\n      - custom: kraken\n",
			want: ErrUnknownHook,
		},
		{
			name: "unknown filter",
			doc:  "encounters:\n  - name: X\n    droppers:\n      - pawn: A\n        filter: tall\n",
			want: ErrUnknownFilter,
		},
		{
			name: "unknown tag",
			doc:  "encounters:\n  - name: X\n    tags: [shiny]\n",
			want: loot.ErrUnknownTag,
		},
		{
			name: "dangling fallback",
			doc:  "encounters:\n  - name: X\n    fallback: Y\n",
			want: loot.ErrFallbackNotFound,
		},
		{
			name: "fallback cycle",
			doc:  "encounters:\n  - name: X\n    fallback: Y\n  - name: Y\n    fallback: X\n",
			want: loot.ErrFallbackCycle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse([]byte("encounters: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
encounters:
  - name: Haderax The Invincible
    rarities: [75, 75]
    droppers:
      - interactive: GD_Chest
        currency_slots: [1]
        levels: [Sanctum_P]
      - behavior: GD_Worm.Behavior_SpawnItems_5
        inject: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	e := reg.Lookup("Haderax The Invincible")
	require.NotNil(t, e)
	require.Len(t, e.Droppers(), 2)
	assert.True(t, e.Droppers()[0].InScope("Sanctum_P"))
	assert.False(t, e.Droppers()[0].InScope("Other_P"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	reg, err = LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 50, reg.Len())
}
