package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepository implements usecase.SequenceRepository on top of a
// single-row-per-series counter table.
type SequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(pool *pgxpool.Pool) *SequenceRepository {
	return &SequenceRepository{pool: pool}
}

// Next atomically increments and returns the counter for the named series.
// The upsert makes the first call on a fresh series return 1.
func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	var value int64

	err := r.pool.QueryRow(ctx, `
		INSERT INTO sequences (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value`, name).Scan(&value)
	if err != nil {
		return 0, err
	}

	return value, nil
}
