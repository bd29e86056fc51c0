// Package dedupe implements the two deduplication disciplines used by the
// pipeline. They are not interchangeable:
//
//   - identity dedup keys on (source, external_id) and runs right before
//     persistence, so re-ingestion upserts instead of duplicating rows;
//   - fuzzy dedup keys on the lower-cased (title, company, location) tuple and
//     runs only when merging live results from sources that share no identity
//     scheme.
package dedupe

import (
	"strings"

	"mercerjobs/feed-service/internal/model"
)

// IdentityKey returns the persistence identity of l. ok is false when the
// record has no usable identity (no external id or no application link) and
// therefore cannot be reconciled on re-ingestion.
func IdentityKey(l model.Listing) (key string, ok bool) {
	if l.ExternalID == nil || *l.ExternalID == "" {
		return "", false
	}
	if l.ApplyLink == nil || *l.ApplyLink == "" {
		return "", false
	}
	return string(l.Source) + ":" + *l.ExternalID, true
}

// FuzzyKey returns the read-time merge key for l.
func FuzzyKey(l model.Listing) string {
	return strings.ToLower(l.Title) + "|" + strings.ToLower(l.Company) + "|" + strings.ToLower(l.Location)
}

// ByIdentity drops records without a usable identity and collapses duplicate
// identities within the batch, keeping the first occurrence. The result is
// safe to hand to the persistence gateway's upsert.
func ByIdentity(in []model.Listing) []model.Listing {
	seen := make(map[string]bool, len(in))
	out := make([]model.Listing, 0, len(in))
	for _, l := range in {
		key, ok := IdentityKey(l)
		if !ok {
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

// MergeFuzzy concatenates lists in priority order and collapses fuzzy-key
// duplicates, first seen wins. Callers pass the internal store's results
// before any live external source so the stored copy is the one retained.
func MergeFuzzy(lists ...[]model.Listing) []model.Listing {
	seen := make(map[string]bool)
	out := make([]model.Listing, 0)
	for _, list := range lists {
		for _, l := range list {
			key := FuzzyKey(l)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, l)
		}
	}
	return out
}
