package store

import (
	"context"
	"fmt"
)

// SetReview records a staff review decision. Reviewed rows keep their
// approval across re-ingestion (see Upsert).
func (s *Store) SetReview(ctx context.Context, id int64, reviewed, approved bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET reviewed = $2, approved = $3 WHERE id = $1`,
		id, reviewed, approved,
	)
	if err != nil {
		return fmt.Errorf("setReview: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a record. Rows are never physically removed, only
// deactivated or superseded by re-ingestion.
func (s *Store) Deactivate(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET is_active = FALSE WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
