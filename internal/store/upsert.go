package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"mercerjobs/feed-service/internal/model"
)

const upsertSQL = `
INSERT INTO jobs (
	title, company, location, description, industry, wage, apply_link,
	created_at_external, source, external_id, state, county,
	is_active, reviewed, approved, flagged_reasons
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (source, external_id) DO UPDATE SET
	title               = EXCLUDED.title,
	company             = EXCLUDED.company,
	location            = EXCLUDED.location,
	description         = EXCLUDED.description,
	industry            = EXCLUDED.industry,
	wage                = EXCLUDED.wage,
	apply_link          = EXCLUDED.apply_link,
	created_at_external = EXCLUDED.created_at_external,
	state               = EXCLUDED.state,
	county              = EXCLUDED.county,
	is_active           = EXCLUDED.is_active,
	flagged_reasons     = EXCLUDED.flagged_reasons,
	reviewed            = jobs.reviewed,
	approved            = CASE WHEN jobs.reviewed THEN jobs.approved
	                           ELSE EXCLUDED.approved END;`

// Upsert writes the batch with merge-on-conflict semantics keyed by
// (source, external_id): incoming field values overwrite prior ones, except
// that an explicit staff review decision survives re-ingestion. Re-running
// ingestion against the same upstream window converges to the same stored
// state.
//
// The batch is sent as one round trip; any statement failure aborts the run
// and is surfaced as a single *PersistError.
func (s *Store) Upsert(ctx context.Context, listings []model.Listing) (int64, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, l := range listings {
		reasons := l.FlaggedReasons
		if reasons == nil {
			reasons = []string{}
		}
		batch.Queue(upsertSQL,
			l.Title, l.Company, l.Location, l.Description, l.Industry, l.Wage,
			l.ApplyLink, l.CreatedAtExternal, string(l.Source), l.ExternalID,
			l.State, l.County, l.IsActive, l.Reviewed, l.Approved, reasons,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	var written int64
	for i := range listings {
		tag, err := results.Exec()
		if err != nil {
			return written, &PersistError{Err: fmt.Errorf("row %d: %w", i, err)}
		}
		written += tag.RowsAffected()
	}

	return written, nil
}
