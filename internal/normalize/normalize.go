// Package normalize maps raw upstream job records into the canonical Listing
// shape. Normalisation is total: no input shape fails, missing fields degrade
// to documented defaults.
package normalize

import (
	"strings"
	"time"

	"mercerjobs/feed-service/internal/model"
)

// Placeholder strings for required display fields that were absent upstream.
const (
	PlaceholderTitle       = "No Title Provided"
	PlaceholderCompany     = "Company Not Listed"
	PlaceholderLocation    = "Location Not Specified"
	PlaceholderDescription = "No description available."
)

// HoursPerYear converts an annual salary into an hourly rate (40h × 52w).
const HoursPerYear = 2080

// timeLayouts are tried in order when parsing upstream posting timestamps.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006",
}

// Listing converts a raw upstream record into a canonical Listing.
//
// Field coalescing order for the wage: an already-hourly rate wins, else the
// midpoint of the annual min/max pair converted to hourly, else whichever
// single bound exists, else nil.
func Listing(raw model.RawJob, src model.Source) model.Listing {
	l := model.Listing{
		Title:       coalesce(raw.Title, PlaceholderTitle),
		Company:     coalesce(raw.Company, PlaceholderCompany),
		Location:    coalesce(raw.Location, PlaceholderLocation),
		Description: coalesce(raw.Description, PlaceholderDescription),
		Source:      src,
		State:       model.State,
		County:      model.County,
		IsActive:    true,
		Reviewed:    false,
	}

	if ind := strings.TrimSpace(raw.Industry); ind != "" {
		l.Industry = &ind
	}
	if link := strings.TrimSpace(raw.ApplyLink); link != "" {
		l.ApplyLink = &link
	}
	if id := strings.TrimSpace(raw.ExternalID); id != "" {
		l.ExternalID = &id
	}

	l.Wage = hourlyWage(raw)
	l.CreatedAtExternal = parseUpstreamTime(raw.PublishedAt)

	return l
}

// hourlyWage applies the wage coalescing rules documented on Listing.
func hourlyWage(raw model.RawJob) *float64 {
	if raw.HourlyWage != nil {
		v := *raw.HourlyWage
		return &v
	}

	lo := annualToHourly(raw.SalaryMin)
	hi := annualToHourly(raw.SalaryMax)

	switch {
	case lo != nil && hi != nil:
		mid := (*lo + *hi) / 2
		return &mid
	case lo != nil:
		return lo
	case hi != nil:
		return hi
	}
	return nil
}

// annualToHourly divides an annual salary by HoursPerYear. Zero and negative
// inputs mean the field was absent and yield nil.
func annualToHourly(annual float64) *float64 {
	if annual <= 0 {
		return nil
	}
	h := annual / HoursPerYear
	return &h
}

func parseUpstreamTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func coalesce(s, fallback string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return fallback
}
