package normalize_test

import (
	"testing"

	"mercerjobs/feed-service/internal/model"
	"mercerjobs/feed-service/internal/normalize"
)

// ── Wage conversion ────────────────────────────────────────────────────────

func TestWage_AnnualPairConvertsToHourlyMidpoint(t *testing.T) {
	l := normalize.Listing(model.RawJob{SalaryMin: 31200, SalaryMax: 41600}, model.SourceExternal)
	if l.Wage == nil {
		t.Fatal("Wage should be set for an annual salary pair")
	}
	// 31200/2080 = 15.0, 41600/2080 = 20.0, midpoint 17.5
	if *l.Wage != 17.5 {
		t.Errorf("Wage = %v, want 17.5", *l.Wage)
	}
}

func TestWage_SingleBoundUsedDirectly(t *testing.T) {
	lo := normalize.Listing(model.RawJob{SalaryMin: 31200}, model.SourceExternal)
	if lo.Wage == nil || *lo.Wage != 15.0 {
		t.Errorf("min-only Wage = %v, want 15.0", lo.Wage)
	}

	hi := normalize.Listing(model.RawJob{SalaryMax: 41600}, model.SourceExternal)
	if hi.Wage == nil || *hi.Wage != 20.0 {
		t.Errorf("max-only Wage = %v, want 20.0", hi.Wage)
	}
}

func TestWage_HourlyRateWinsOverAnnual(t *testing.T) {
	hourly := 18.25
	l := normalize.Listing(model.RawJob{HourlyWage: &hourly, SalaryMin: 31200, SalaryMax: 41600}, model.SourceExternal)
	if l.Wage == nil || *l.Wage != 18.25 {
		t.Errorf("Wage = %v, want the already-hourly 18.25", l.Wage)
	}
}

func TestWage_AbsentSalaryYieldsNil(t *testing.T) {
	l := normalize.Listing(model.RawJob{}, model.SourceExternal)
	if l.Wage != nil {
		t.Errorf("Wage = %v, want nil when no salary data exists", *l.Wage)
	}
}

// ── Placeholders and defaults ──────────────────────────────────────────────

func TestPlaceholders_MissingDisplayFields(t *testing.T) {
	l := normalize.Listing(model.RawJob{}, model.SourceExternal)

	if l.Title != normalize.PlaceholderTitle {
		t.Errorf("Title = %q, want placeholder", l.Title)
	}
	if l.Company != normalize.PlaceholderCompany {
		t.Errorf("Company = %q, want placeholder", l.Company)
	}
	if l.Location != normalize.PlaceholderLocation {
		t.Errorf("Location = %q, want placeholder", l.Location)
	}
	if l.Description != normalize.PlaceholderDescription {
		t.Errorf("Description = %q, want placeholder", l.Description)
	}
	if l.Industry != nil {
		t.Errorf("Industry = %v, want nil", *l.Industry)
	}
	if l.ApplyLink != nil {
		t.Errorf("ApplyLink = %v, want nil", *l.ApplyLink)
	}
	if l.ExternalID != nil {
		t.Errorf("ExternalID = %v, want nil", *l.ExternalID)
	}
}

// ── Totality ───────────────────────────────────────────────────────────────

func TestNormalize_IsTotal(t *testing.T) {
	// No input shape may abort the record: junk in every field still yields
	// a canonical listing with the geography pinned.
	l := normalize.Listing(model.RawJob{
		Title:       "   ",
		SalaryMin:   -5,
		SalaryMax:   -1,
		PublishedAt: "not a timestamp",
		ApplyLink:   "\t",
	}, model.SourceExternal)

	if l.Title != normalize.PlaceholderTitle {
		t.Errorf("whitespace title should fall back to placeholder, got %q", l.Title)
	}
	if l.Wage != nil {
		t.Errorf("negative salary bounds should yield nil wage, got %v", *l.Wage)
	}
	if l.CreatedAtExternal != nil {
		t.Errorf("unparseable timestamp should yield nil, got %v", *l.CreatedAtExternal)
	}
	if l.State != model.State || l.County != model.County {
		t.Errorf("geography = %s/%s, want %s/%s", l.State, l.County, model.State, model.County)
	}
	if !l.IsActive {
		t.Error("new listings should start active")
	}
	if l.Reviewed {
		t.Error("new listings should start unreviewed")
	}
}

// ── Timestamp parsing ──────────────────────────────────────────────────────

func TestPublishedAt_AcceptedLayouts(t *testing.T) {
	cases := []string{
		"2026-08-20T14:30:00Z",
		"2026-08-20T14:30:00",
		"2026-08-20",
		"8/20/2026",
	}
	for _, s := range cases {
		l := normalize.Listing(model.RawJob{PublishedAt: s}, model.SourceExternal)
		if l.CreatedAtExternal == nil {
			t.Errorf("PublishedAt %q should parse", s)
		}
	}
}
