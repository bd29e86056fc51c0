package store

import (
	"context"
	"fmt"
)

// Migrate creates the jobs table and its indexes if they do not exist.
// The UNIQUE (source, external_id) constraint is the identity key the
// upsert's conflict resolution relies on.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id                  BIGSERIAL PRIMARY KEY,
			title               TEXT NOT NULL,
			company             TEXT NOT NULL,
			location            TEXT NOT NULL,
			description         TEXT NOT NULL DEFAULT '',
			industry            TEXT,
			wage                DOUBLE PRECISION,
			apply_link          TEXT,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_at_external TIMESTAMPTZ,
			source              TEXT NOT NULL,
			external_id         TEXT NOT NULL,
			state               TEXT NOT NULL DEFAULT 'NJ',
			county              TEXT NOT NULL DEFAULT 'Mercer',
			is_active           BOOLEAN NOT NULL DEFAULT TRUE,
			reviewed            BOOLEAN NOT NULL DEFAULT FALSE,
			approved            BOOLEAN NOT NULL DEFAULT FALSE,
			flagged_reasons     TEXT[] NOT NULL DEFAULT '{}',
			UNIQUE (source, external_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_recency
			ON jobs ((COALESCE(created_at_external, created_at)) DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_geo_visibility
			ON jobs (state, county, approved, is_active)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
