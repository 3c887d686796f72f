package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/lootrandomizer/internal/assign"
)

// AssignmentRepository stores the pool assignments generated for a seed.
type AssignmentRepository struct {
	db *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Save replaces every assignment stored for seed.
func (r *AssignmentRepository) Save(ctx context.Context, seed int64, tags []string, rows []assign.Assignment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			slog.Error("rollback failed", "seed", seed, "error", err)
		}
	}()

	if tags == nil {
		tags = []string{}
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO seeds (seed, tags) VALUES ($1, $2)
		 ON CONFLICT (seed) DO UPDATE SET tags = EXCLUDED.tags`,
		seed, tags,
	); err != nil {
		return fmt.Errorf("upserting seed %d: %w", seed, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM pool_assignments WHERE seed = $1`, seed); err != nil {
		return fmt.Errorf("deleting old assignments for seed %d: %w", seed, err)
	}

	if len(rows) > 0 {
		copyRows := make([][]any, 0, len(rows))
		for _, a := range rows {
			copyRows = append(copyRows, []any{seed, a.Encounter, a.Pool, a.Definition, a.Hint})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"pool_assignments"},
			[]string{"seed", "encounter", "pool", "definition", "hint"},
			pgx.CopyFromRows(copyRows),
		); err != nil {
			return fmt.Errorf("inserting assignments for seed %d: %w", seed, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Load returns the assignments stored for seed, ordered by encounter.
func (r *AssignmentRepository) Load(ctx context.Context, seed int64) ([]assign.Assignment, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seeds WHERE seed = $1)`, seed).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking seed %d: %w", seed, err)
	}
	if !exists {
		return nil, fmt.Errorf("seed %d: %w", seed, ErrSeedNotFound)
	}

	rows, err := r.db.Query(ctx, `
		SELECT encounter, pool, definition, hint
		FROM pool_assignments
		WHERE seed = $1
		ORDER BY encounter
	`, seed)
	if err != nil {
		return nil, fmt.Errorf("querying assignments for seed %d: %w", seed, err)
	}
	defer rows.Close()

	out := make([]assign.Assignment, 0, 64)
	for rows.Next() {
		var a assign.Assignment
		if err := rows.Scan(&a.Encounter, &a.Pool, &a.Definition, &a.Hint); err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignment rows: %w", err)
	}
	return out, nil
}

// Tags returns the tag names a seed was generated with.
func (r *AssignmentRepository) Tags(ctx context.Context, seed int64) ([]string, error) {
	var tags []string
	err := r.db.QueryRow(ctx, `SELECT tags FROM seeds WHERE seed = $1`, seed).Scan(&tags)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("seed %d: %w", seed, ErrSeedNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tags of seed %d: %w", seed, err)
	}
	return tags, nil
}

// Delete removes a seed and its assignments.
func (r *AssignmentRepository) Delete(ctx context.Context, seed int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM seeds WHERE seed = $1`, seed); err != nil {
		return fmt.Errorf("deleting seed %d: %w", seed, err)
	}
	return nil
}
