package store

import (
	"context"
	"fmt"

	"mercerjobs/feed-service/internal/model"
)

// IndustryStat is one row of the aggregate industry breakdown.
type IndustryStat struct {
	Industry  string   `json:"industry"`
	Jobs      int64    `json:"jobs"`
	AvgHourly *float64 `json:"avg_hourly"` // nil when no row carries a wage
}

// IndustryMetrics returns per-industry job counts and average hourly wages
// over active records in the fixed geography, largest industries first.
func (s *Store) IndustryMetrics(ctx context.Context) ([]IndustryStat, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT COALESCE(industry, 'Uncategorized'),
		       count(*),
		       round(avg(wage)::numeric, 2)
		FROM jobs
		WHERE state = $1 AND county = $2 AND is_active
		GROUP BY 1
		ORDER BY 2 DESC
		LIMIT 8`,
		model.State, model.County,
	)
	if err != nil {
		return nil, fmt.Errorf("industryMetrics query: %w", err)
	}
	defer rows.Close()

	stats := make([]IndustryStat, 0, 8)
	for rows.Next() {
		var st IndustryStat
		if err := rows.Scan(&st.Industry, &st.Jobs, &st.AvgHourly); err != nil {
			return nil, fmt.Errorf("industryMetrics scan: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
