package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/lootrandomizer/internal/gist"
)

// TrackerRepository persists the gist tracker state in a single row.
type TrackerRepository struct {
	db *pgxpool.Pool
}

var _ gist.StateStore = (*TrackerRepository)(nil)

// NewTrackerRepository creates a new TrackerRepository.
func NewTrackerRepository(db *pgxpool.Pool) *TrackerRepository {
	return &TrackerRepository{db: db}
}

// LoadState returns the stored state, or the zero state if none was saved.
func (r *TrackerRepository) LoadState(ctx context.Context) (gist.State, error) {
	var s gist.State
	err := r.db.QueryRow(ctx,
		`SELECT gist_id, gist_url, last_seed FROM gist_tracker WHERE id = 1`,
	).Scan(&s.GistID, &s.GistURL, &s.LastSeed)
	if err == pgx.ErrNoRows {
		return gist.State{}, nil
	}
	if err != nil {
		return gist.State{}, fmt.Errorf("querying gist tracker: %w", err)
	}
	return s, nil
}

// SaveState upserts the state.
func (r *TrackerRepository) SaveState(ctx context.Context, s gist.State) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO gist_tracker (id, gist_id, gist_url, last_seed, updated_at)
		VALUES (1, $1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET gist_id = EXCLUDED.gist_id,
		    gist_url = EXCLUDED.gist_url,
		    last_seed = EXCLUDED.last_seed,
		    updated_at = EXCLUDED.updated_at
	`, s.GistID, s.GistURL, s.LastSeed)
	if err != nil {
		return fmt.Errorf("saving gist tracker: %w", err)
	}
	return nil
}
