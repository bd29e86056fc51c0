// Package model defines shared data structures for the feed service.
package model

import "time"

// Source identifies which upstream a listing came from. Together with
// ExternalID it forms the identity key for persisted records.
type Source string

const (
	SourceExternal Source = "external"
	SourceInternal Source = "internal"
)

// Fixed geography scope for this deployment. Every persisted record carries
// these values and every read query pins them.
const (
	State  = "NJ"
	County = "Mercer"
)

// Listing is the canonical job record every source is normalised into.
// Optional fields are pointers: nil means the upstream never provided a value.
type Listing struct {
	ID                int64      `json:"id,omitempty"`
	Title             string     `json:"title"`
	Company           string     `json:"company"`
	Location          string     `json:"location"`
	Description       string     `json:"description"`
	Industry          *string    `json:"industry"`
	Wage              *float64   `json:"wage"` // normalised hourly rate
	ApplyLink         *string    `json:"apply_link"`
	CreatedAtExternal *time.Time `json:"created_at_external"`
	CreatedAt         time.Time  `json:"created_at,omitempty"`
	Source            Source     `json:"source"`
	ExternalID        *string    `json:"external_id"`
	State             string     `json:"state"`
	County            string     `json:"county"`
	IsActive          bool       `json:"is_active"`
	Reviewed          bool       `json:"reviewed"`
	Approved          bool       `json:"approved"`
	FlaggedReasons    []string   `json:"flagged_reasons"`
}

// RawJob is an offer as fetched from an external job board, before
// normalisation. Zero values mean the field was absent upstream.
type RawJob struct {
	ExternalID  string
	Title       string
	Company     string
	Location    string
	Description string
	Industry    string
	SalaryMin   float64  // annual, 0 = absent
	SalaryMax   float64  // annual, 0 = absent
	HourlyWage  *float64 // already-hourly rate, when the origin provides one
	ApplyLink   string
	PublishedAt string // upstream timestamp string, "" = absent
}
