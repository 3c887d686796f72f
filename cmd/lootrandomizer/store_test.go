package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lootrandomizer/internal/config"
	"github.com/udisondev/lootrandomizer/internal/db"
	"github.com/udisondev/lootrandomizer/internal/testutil"
)

func TestLoadStoredAssignments(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	_, pool := testutil.SetupTestDB(t)
	repo := db.NewAssignmentRepository(pool)

	path := filepath.Join(t.TempDir(), "assignments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed: 7
assignments:
  - encounter: Scorch
    pool: Hellfire
    definition: GD_Itempools.Runnables.Pool_Scorch
`), 0o644))

	cfg := config.DefaultRandomizer()
	cfg.Seed = 7
	cfg.EnabledTags = []string{"slow_enemy"}

	// без файла: сид не найден
	_, err := loadStoredAssignments(ctx, repo, cfg)
	assert.ErrorIs(t, err, db.ErrSeedNotFound)

	// первый запуск импортирует файл
	cfg.AssignmentsPath = path
	rows, err := loadStoredAssignments(ctx, repo, cfg)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Hellfire", rows[0].Pool)

	tags, err := repo.Tags(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"slow_enemy"}, tags)

	// второй запуск читает из базы, файл больше не нужен
	require.NoError(t, os.Remove(path))
	rows, err = loadStoredAssignments(ctx, repo, cfg)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "GD_Itempools.Runnables.Pool_Scorch", rows[0].Definition)
}
