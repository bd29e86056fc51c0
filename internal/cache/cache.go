// Package cache provides a time-bounded memo table for expensive upstream
// aggregations, keyed by a normalised query signature. Only successful
// payloads are ever written, so a transient upstream outage self-heals on the
// next request instead of being pinned.
package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// Store is the read/write contract the serving path uses. Implementations:
// Redis for deployments with a REDIS_URL, Memory otherwise (and in tests).
type Store interface {
	// Get returns the cached payload for key, or ok=false on miss or
	// expiry. Backend errors are treated as misses, never surfaced.
	Get(ctx context.Context, key string) (payload []byte, ok bool)
	// Set stores payload under key for the store's TTL.
	Set(ctx context.Context, key string, payload []byte)
}

// Signature builds the cache key for a live search: lower-cased,
// whitespace-normalised, token-order-independent encoding of the query's
// keywords, location and paging parameters.
func Signature(keywords, location string, maxAgeDays, pageSize int) string {
	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(normalizeTokens(keywords))
	b.WriteString("&where=")
	b.WriteString(normalizeTokens(location))
	b.WriteString("&days=")
	b.WriteString(strconv.Itoa(maxAgeDays))
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(pageSize))
	return b.String()
}

// normalizeTokens lower-cases s, collapses whitespace and sorts the tokens so
// "Warehouse OR Retail" and "retail or warehouse" share a signature.
func normalizeTokens(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	sort.Strings(fields)
	return strings.Join(fields, "+")
}
