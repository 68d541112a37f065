package sequence

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Tx, and pgxmock pools.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// The upsert takes a row lock on the counter, so concurrent increments of the
// same kind serialize inside PostgreSQL and each observes a distinct value.
const incrementSQL = `
	INSERT INTO sequence_counters (kind, value)
	VALUES ($1, 1)
	ON CONFLICT (kind) DO UPDATE
	SET value = sequence_counters.value + 1, updated_at = now()
	RETURNING value`

type pgStore struct {
	db Querier
}

// NewPostgresStore creates a Store backed by the sequence_counters table.
func NewPostgresStore(db Querier) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Increment(ctx context.Context, kind Kind) (int64, error) {
	var value int64
	if err := s.db.QueryRow(ctx, incrementSQL, string(kind)).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
