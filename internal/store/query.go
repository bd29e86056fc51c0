package store

import (
	"context"
	"fmt"
	"strings"

	"mercerjobs/feed-service/internal/model"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// FeedQuery is the public read contract: every filter is optional, the
// geography scope is fixed and always applied.
type FeedQuery struct {
	// Keywords are disjunctive terms; a row matches when any term appears
	// in its title, company, industry or location.
	Keywords     []string
	Industry     string   // exact match
	Location     string   // substring match
	MinWage      *float64 // inclusive lower bound
	ApprovedOnly bool     // default visibility: approved records only
	Limit        int      // clamped to 1..100, default 20
}

const feedSelect = `
SELECT id, title, company, location, description, industry, wage, apply_link,
       created_at, created_at_external, source, external_id, state, county,
       is_active, reviewed, approved, flagged_reasons
FROM jobs`

// buildFeedSQL renders the query as SQL plus positional args. Split out so
// filter construction is unit-testable without a database.
func buildFeedSQL(q FeedQuery) (string, []any) {
	where := []string{"state = $1", "county = $2", "is_active"}
	args := []any{model.State, model.County}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.ApprovedOnly {
		where = append(where, "approved")
	}
	if q.Industry != "" {
		where = append(where, "industry = "+arg(q.Industry))
	}
	if q.MinWage != nil {
		where = append(where, "wage >= "+arg(*q.MinWage))
	}
	if q.Location != "" {
		where = append(where, "location ILIKE "+arg("%"+q.Location+"%"))
	}
	if len(q.Keywords) > 0 {
		clauses := make([]string, 0, len(q.Keywords))
		for _, term := range q.Keywords {
			p := arg("%" + term + "%")
			clauses = append(clauses, fmt.Sprintf(
				"(title ILIKE %[1]s OR company ILIKE %[1]s OR industry ILIKE %[1]s OR location ILIKE %[1]s)", p))
		}
		where = append(where, "("+strings.Join(clauses, " OR ")+")")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	sql := feedSelect +
		"\nWHERE " + strings.Join(where, " AND ") +
		"\nORDER BY COALESCE(created_at_external, created_at) DESC" +
		"\nLIMIT " + arg(limit)

	return sql, args
}

// ListFeed returns persisted records matching q, newest first (external
// posting time preferred, ingestion time as fallback).
func (s *Store) ListFeed(ctx context.Context, q FeedQuery) ([]model.Listing, error) {
	sql, args := buildFeedSQL(q)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listFeed query: %w", err)
	}
	defer rows.Close()

	out := make([]model.Listing, 0)
	for rows.Next() {
		var l model.Listing
		var src string
		if err := rows.Scan(
			&l.ID, &l.Title, &l.Company, &l.Location, &l.Description,
			&l.Industry, &l.Wage, &l.ApplyLink,
			&l.CreatedAt, &l.CreatedAtExternal, &src, &l.ExternalID,
			&l.State, &l.County, &l.IsActive, &l.Reviewed, &l.Approved,
			&l.FlaggedReasons,
		); err != nil {
			return nil, fmt.Errorf("listFeed scan: %w", err)
		}
		l.Source = model.Source(src)
		out = append(out, l)
	}
	return out, rows.Err()
}
