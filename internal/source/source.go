// Package source implements the upstream job-board adapters. Each adapter
// issues a single bounded network call per invocation and converts every
// transport or payload failure into an *Error value; retry policy belongs to
// the caller.
package source

import (
	"context"
	"strings"
	"unicode"

	"mercerjobs/feed-service/internal/model"
)

// Query is the caller-facing search request. Adapters clamp paging and age
// parameters to their upstream's documented bounds before building the
// request; unbounded values are never forwarded.
type Query struct {
	Keywords   string
	Location   string
	MaxAgeDays int
	PageSize   int
}

// Adapter fetches raw records from one upstream origin.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]model.RawJob, error)
}

// Terms splits a keyword expression into its disjunctive terms. "OR" (any
// case) is the only recognised operator and double-quoted phrases survive as
// single terms, so `"entry level" OR warehouse` yields
// ["entry level", "warehouse"]. Callers that match against local storage use
// the terms individually; upstream APIs take the expression verbatim.
func Terms(keywords string) []string {
	var terms []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			terms = append(terms, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}
	for _, tok := range splitQuoted(keywords) {
		if strings.EqualFold(tok, "OR") {
			flush()
			continue
		}
		cur = append(cur, tok)
	}
	flush()
	return terms
}

// splitQuoted is strings.Fields with double-quoted phrases kept whole.
func splitQuoted(s string) []string {
	var tokens []string
	var b strings.Builder
	inQuote := false
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
		case !inQuote && unicode.IsSpace(r):
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// clamp bounds v to [lo, hi], substituting def when v is unset (<= 0).
func clamp(v, def, lo, hi int) int {
	if v <= 0 {
		v = def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
