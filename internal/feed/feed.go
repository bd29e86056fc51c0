// Package feed implements the serving path: a fan-out read over the internal
// store and the live external sources, fuzzy-deduplicated, cached by query
// signature, and always answered with a well-formed (possibly empty) result
// plus per-source diagnostics.
package feed

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"mercerjobs/feed-service/internal/cache"
	"mercerjobs/feed-service/internal/dedupe"
	"mercerjobs/feed-service/internal/model"
	"mercerjobs/feed-service/internal/normalize"
	"mercerjobs/feed-service/internal/source"
	"mercerjobs/feed-service/internal/store"
	"mercerjobs/feed-service/internal/vet"
)

const defaultSourceTimeout = 10 * time.Second

// Source yields canonical listings for a live merge. Implementations wrap
// either a raw external adapter or the internal store.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q source.Query, opts Opts) ([]model.Listing, error)
}

// LiveSource adapts an external adapter: raw records are normalised and run
// through the integrity filter so live results obey the same visibility
// rules as stored ones.
type LiveSource struct {
	Adapter source.Adapter
	Rules   vet.Rules
}

func (s LiveSource) Name() string { return s.Adapter.Name() }

func (s LiveSource) Fetch(ctx context.Context, q source.Query, _ Opts) ([]model.Listing, error) {
	raws, err := s.Adapter.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Listing, 0, len(raws))
	for _, raw := range raws {
		out = append(out, vet.Apply(normalize.Listing(raw, model.SourceExternal), s.Rules))
	}
	return out, nil
}

// FeedLister is the slice of the persistence gateway the serving path reads.
// Satisfied by *store.Store.
type FeedLister interface {
	ListFeed(ctx context.Context, q store.FeedQuery) ([]model.Listing, error)
}

// StoreSource reads the internal managed store. It is listed first in the
// service's source order so the stored copy wins fuzzy deduplication.
type StoreSource struct {
	Store FeedLister
}

func (s StoreSource) Name() string { return "internal" }

// Fetch translates the live query for the store: the upstream OR-expression
// is split into individual terms so the disjunction happens in SQL, not as
// one literal pattern no row could match. Staff requests read unfiltered.
func (s StoreSource) Fetch(ctx context.Context, q source.Query, opts Opts) ([]model.Listing, error) {
	return s.Store.ListFeed(ctx, store.FeedQuery{
		Keywords:     source.Terms(q.Keywords),
		ApprovedOnly: !opts.IncludeUnapproved,
		Limit:        q.PageSize,
	})
}

// Diagnostic reports one source's contribution to a merged result.
type Diagnostic struct {
	OK    bool   `json:"ok"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// Meta echoes the query and carries the result count.
type Meta struct {
	Keywords   string `json:"keywords"`
	Location   string `json:"location"`
	MaxAgeDays int    `json:"max_age_days"`
	Limit      int    `json:"limit"`
	Count      int    `json:"count"`
	Message    string `json:"message,omitempty"`
}

// Result is the merged serving-path response.
type Result struct {
	Meta      Meta                  `json:"meta"`
	Jobs      []model.Listing       `json:"jobs"`
	Sources   map[string]Diagnostic `json:"sources"`
	FromCache bool                  `json:"from_cache,omitempty"`
}

// Opts tweaks one search invocation.
type Opts struct {
	// IncludeUnapproved requests the unfiltered set for staff tooling.
	// Such requests bypass the cache in both directions.
	IncludeUnapproved bool
}

// Service owns the serving path. Construct once at process start.
type Service struct {
	Sources []Source // priority order: internal store first
	Cache   cache.Store
	Timeout time.Duration // per-source call bound; 0 = default

	// EmptyMessage, when non-empty, is attached to zero-hit results
	// (the configurable empty-result response mode).
	EmptyMessage string
}

// Search runs the fan-out/join aggregation for q. Per-source failures are
// isolated: a failed branch contributes zero records and a diagnostic, and
// the call itself never fails. Only fully successful merges are cached.
func (s *Service) Search(ctx context.Context, q source.Query, opts Opts) Result {
	sig := cache.Signature(q.Keywords, q.Location, q.MaxAgeDays, q.PageSize)

	if s.Cache != nil && !opts.IncludeUnapproved {
		if payload, ok := s.Cache.Get(ctx, sig); ok {
			var cached Result
			if err := json.Unmarshal(payload, &cached); err == nil {
				cached.FromCache = true
				return cached
			}
			log.Printf("[feed] dropping undecodable cache entry %q: refetching", sig)
		}
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}

	// Indexed by source position so merge priority survives the fan-out.
	branches := make([][]model.Listing, len(s.Sources))
	diags := make(map[string]Diagnostic, len(s.Sources))
	errs := make([]error, len(s.Sources))

	var g errgroup.Group
	for i, src := range s.Sources {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			listings, err := src.Fetch(fctx, q, opts)
			branches[i] = listings
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	allOK := true
	for i, src := range s.Sources {
		d := Diagnostic{OK: errs[i] == nil, Count: len(branches[i])}
		if errs[i] != nil {
			d.Error = source.Classify(errs[i]).Error()
			allOK = false
			log.Printf("[feed] source %s failed: %v", src.Name(), errs[i])
		}
		diags[src.Name()] = d
	}

	merged := dedupe.MergeFuzzy(branches...)
	if !opts.IncludeUnapproved {
		merged = approvedOnly(merged)
	}
	if len(merged) > q.PageSize && q.PageSize > 0 {
		merged = merged[:q.PageSize]
	}

	res := Result{
		Meta: Meta{
			Keywords:   q.Keywords,
			Location:   q.Location,
			MaxAgeDays: q.MaxAgeDays,
			Limit:      q.PageSize,
			Count:      len(merged),
		},
		Jobs:    merged,
		Sources: diags,
	}
	if len(merged) == 0 && s.EmptyMessage != "" {
		res.Meta.Message = s.EmptyMessage
	}

	// Never cache a degraded merge: a transient outage must self-heal on
	// the next request.
	if s.Cache != nil && allOK && !opts.IncludeUnapproved {
		if payload, err := json.Marshal(res); err == nil {
			s.Cache.Set(ctx, sig, payload)
		}
	}

	return res
}

func approvedOnly(in []model.Listing) []model.Listing {
	out := make([]model.Listing, 0, len(in))
	for _, l := range in {
		if l.Approved {
			out = append(out, l)
		}
	}
	return out
}
