package store

import (
	"strings"
	"testing"

	"mercerjobs/feed-service/internal/model"
)

// buildFeedSQL is exercised directly: filter construction is pure and must be
// right before any row ever gets scanned.

func TestBuildFeedSQL_BaseClausesAlwaysApply(t *testing.T) {
	sql, args := buildFeedSQL(FeedQuery{})

	for _, clause := range []string{"state = $1", "county = $2", "is_active"} {
		if !strings.Contains(sql, clause) {
			t.Errorf("missing mandatory clause %q in:\n%s", clause, sql)
		}
	}
	if args[0] != model.State || args[1] != model.County {
		t.Errorf("geo args = %v/%v, want %s/%s", args[0], args[1], model.State, model.County)
	}
	if !strings.Contains(sql, "ORDER BY COALESCE(created_at_external, created_at) DESC") {
		t.Errorf("missing recency ordering in:\n%s", sql)
	}
}

func TestBuildFeedSQL_ApprovedOnlyToggle(t *testing.T) {
	// The SELECT list always names the approved column, so scope the check
	// to the WHERE clause.
	open, _ := buildFeedSQL(FeedQuery{})
	if strings.Contains(open[strings.Index(open, "WHERE"):], "approved") {
		t.Error("unfiltered query must not constrain approval")
	}

	gated, _ := buildFeedSQL(FeedQuery{ApprovedOnly: true})
	if !strings.Contains(gated[strings.Index(gated, "WHERE"):], "approved") {
		t.Error("public query must constrain approval")
	}
}

func TestBuildFeedSQL_LimitClamped(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, defaultFeedLimit},
		{-3, defaultFeedLimit},
		{50, 50},
		{500, maxFeedLimit},
	}
	for _, c := range cases {
		_, args := buildFeedSQL(FeedQuery{Limit: c.in})
		// limit is always the last positional arg
		if got := args[len(args)-1]; got != c.want {
			t.Errorf("Limit %d: bound %v, want %d", c.in, got, c.want)
		}
	}
}

func TestBuildFeedSQL_KeywordSpansDisplayColumns(t *testing.T) {
	sql, args := buildFeedSQL(FeedQuery{Keywords: []string{"cook"}})

	for _, col := range []string{"title ILIKE", "company ILIKE", "industry ILIKE", "location ILIKE"} {
		if !strings.Contains(sql, col) {
			t.Errorf("keyword clause missing %q in:\n%s", col, sql)
		}
	}
	found := false
	for _, a := range args {
		if a == "%cook%" {
			found = true
		}
	}
	if !found {
		t.Errorf("args %v missing wildcarded keyword", args)
	}
	// one shared placeholder for all four columns plus geo args and limit
	if len(args) != 4 {
		t.Errorf("len(args) = %d, want 4 (state, county, keyword, limit)", len(args))
	}
}

func TestBuildFeedSQL_MultipleTermsFormDisjunction(t *testing.T) {
	// Each term gets its own four-column clause joined by OR. A single
	// concatenated pattern would match nothing a real row carries.
	terms := []string{"entry level", "warehouse", "retail"}
	sql, args := buildFeedSQL(FeedQuery{Keywords: terms})

	if got := strings.Count(sql, "title ILIKE"); got != len(terms) {
		t.Errorf("title ILIKE appears %d times, want one clause per term (%d):\n%s", got, len(terms), sql)
	}
	for _, term := range terms {
		found := false
		for _, a := range args {
			if a == "%"+term+"%" {
				found = true
			}
		}
		if !found {
			t.Errorf("args %v missing wildcarded term %q", args, term)
		}
	}
	for _, a := range args {
		if a == "%entry level OR warehouse OR retail%" {
			t.Error("terms must not be concatenated into one pattern")
		}
	}
	// state, county, one per term, limit
	if len(args) != 2+len(terms)+1 {
		t.Errorf("len(args) = %d, want %d", len(args), 2+len(terms)+1)
	}
}

func TestBuildFeedSQL_AllFiltersCompose(t *testing.T) {
	wage := 15.0
	sql, args := buildFeedSQL(FeedQuery{
		Keywords:     []string{"cook"},
		Industry:     "Hospitality",
		Location:     "Trenton",
		MinWage:      &wage,
		ApprovedOnly: true,
		Limit:        10,
	})

	if got := strings.Count(sql, " AND "); got < 6 {
		t.Errorf("composed WHERE joins %d clauses, want all filters present:\n%s", got+1, sql)
	}
	// state, county, industry, wage, location, keyword, limit
	if len(args) != 7 {
		t.Errorf("len(args) = %d, want 7", len(args))
	}
}
