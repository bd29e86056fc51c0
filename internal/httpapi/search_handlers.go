package httpapi

import (
	"net/http"
	"strings"

	"mercerjobs/feed-service/internal/feed"
	"mercerjobs/feed-service/internal/source"
)

// Defaults for the live search when the caller omits a parameter; adapters
// still clamp whatever reaches them.
const (
	defaultSearchKeywords = `"entry level" OR warehouse OR healthcare OR manufacturing OR culinary OR retail`
	defaultSearchLocation = "Mercer County, New Jersey"
	defaultSearchDays     = 3
	defaultSearchLimit    = 20
)

// SearchHandler serves the live multi-source aggregation.
type SearchHandler struct {
	Feed   *feed.Service
	Secret string
}

// Get handles GET /api/search. Partial upstream failure still answers 200
// with per-source diagnostics; only malformed caller input is rejected.
func (h SearchHandler) Get(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", defaultSearchDays)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	limit, err := intParam(r, "limit", defaultSearchLimit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	q := source.Query{
		Keywords:   strings.TrimSpace(r.URL.Query().Get("q")),
		Location:   strings.TrimSpace(r.URL.Query().Get("where")),
		MaxAgeDays: days,
		PageSize:   limit,
	}
	if q.Keywords == "" {
		q.Keywords = defaultSearchKeywords
	}
	if q.Location == "" {
		q.Location = defaultSearchLocation
	}

	// The unfiltered set is staff-only, so it rides on the shared secret.
	opts := feed.Opts{}
	if h.Secret != "" && r.URL.Query().Get("include_unapproved") == "true" &&
		r.URL.Query().Get("secret") == h.Secret {
		opts.IncludeUnapproved = true
	}

	writeJSON(w, http.StatusOK, h.Feed.Search(r.Context(), q, opts))
}
