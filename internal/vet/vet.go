// Package vet implements the integrity filter: plausibility and trust checks
// that decide whether a listing is auto-approved for the public feed.
//
// Every rule is evaluated independently and the union of matches forms the
// flag set, so a rejected record still carries full diagnostic context for
// staff audit. No rule short-circuits another.
package vet

import (
	"fmt"
	"net/url"
	"strings"

	"mercerjobs/feed-service/internal/model"
)

// Flag values are machine-readable and stable; staff tooling keys off them.
const (
	FlagBadTitleWords   = "bad_title_words"
	FlagOutsideGeo      = "outside_mercer_hint"
	FlagImplausibleWage = "implausible_wage"

	// FlagUntrustedSource is a prefix; the offending host is appended.
	FlagUntrustedSource = "untrusted_source:"
)

// Rules holds the configured block- and allow-lists the filter runs against.
type Rules struct {
	BadTitleWords  []string
	TrustedHosts   []string
	LocalityTokens []string
	MinHourly      float64
	MaxHourly      float64
}

// DefaultRules returns the deployment defaults for the Mercer County, NJ scope.
func DefaultRules() Rules {
	return Rules{
		BadTitleWords: []string{
			"bitcoin", "crypto", "forex", "nft", "escort", "adult",
			"fee required", "training fee", "wire transfer", "deposit required",
		},
		TrustedHosts: []string{
			"indeed.com", "ziprecruiter.com", "glassdoor.com", "linkedin.com", "adzuna.com",
		},
		LocalityTokens: []string{
			"mercer", "trenton", "hamilton", "ewing", "princeton", "lawrence",
		},
		MinHourly: 12, // NJ entry-level floor
		MaxHourly: 60, // sanity upper bound
	}
}

// Verdict is the outcome of evaluating one listing.
type Verdict struct {
	Flags    []string
	Approved bool
}

// Evaluate runs every rule against the listing. Approved is true only when no
// rule matched; a human reviewer may later override via the reviewed flag.
func Evaluate(l model.Listing, r Rules) Verdict {
	var flags []string

	if hasBadTitle(l.Title, r.BadTitleWords) {
		flags = append(flags, FlagBadTitleWords)
	}

	// Absence of an apply link never triggers the trust rule.
	if l.ApplyLink != nil {
		if host := hostFromURL(*l.ApplyLink); host != "" && !isTrustedHost(host, r.TrustedHosts) {
			flags = append(flags, FlagUntrustedSource+host)
		}
	}

	if !hasLocalityHint(l.Location, r.LocalityTokens) {
		flags = append(flags, FlagOutsideGeo)
	}

	// A nil wage is absence, not implausibility.
	if l.Wage != nil && (*l.Wage < r.MinHourly || *l.Wage > r.MaxHourly) {
		flags = append(flags, FlagImplausibleWage)
	}

	return Verdict{Flags: flags, Approved: len(flags) == 0}
}

// Apply stamps the verdict onto the listing and returns it.
func Apply(l model.Listing, r Rules) model.Listing {
	v := Evaluate(l, r)
	l.FlaggedReasons = v.Flags
	l.Approved = v.Approved
	return l
}

// hasBadTitle returns true if any blocked term appears (case-insensitive)
// anywhere in the title.
func hasBadTitle(title string, blocked []string) bool {
	t := strings.ToLower(title)
	for _, w := range blocked {
		if w == "" {
			continue
		}
		if strings.Contains(t, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// hostFromURL extracts the hostname of u, stripped of a leading "www.".
// Unparseable URLs yield "".
func hostFromURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

func isTrustedHost(host string, trusted []string) bool {
	for _, t := range trusted {
		if host == t {
			return true
		}
	}
	return false
}

func hasLocalityHint(location string, tokens []string) bool {
	loc := strings.ToLower(location)
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if strings.Contains(loc, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}

// Describe renders a verdict for logs.
func Describe(v Verdict) string {
	if v.Approved {
		return "approved"
	}
	return fmt.Sprintf("flagged (%s)", strings.Join(v.Flags, ", "))
}
