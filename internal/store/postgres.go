// Package store is the persistence gateway and read path over the jobs table.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an id-targeted mutation matches no row.
var ErrNotFound = errors.New("job not found")

// PersistError wraps a backing-store write failure. Ingestion surfaces it as
// one aggregate error; the run is fully retryable because upsert is
// idempotent.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return fmt.Sprintf("persist: %v", e.Err) }
func (e *PersistError) Unwrap() error { return e.Err }

// Store wraps the pgx pool with the queries this service needs.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store over an already-connected pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// NewPostgresPool creates and verifies a pgxpool connection pool.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}
