package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"mercerjobs/feed-service/internal/source"
	"mercerjobs/feed-service/internal/store"
)

// JobsHandler serves the persisted feed and the staff mutations on it.
type JobsHandler struct {
	Store  *store.Store
	Secret string
}

// List handles GET /api/jobs: the public feed over persisted records.
// Approved-only by default; approved=false requests the unfiltered set for
// staff tooling.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intParam(r, "limit", 20)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	minWage, err := floatParam(r, "min_wage")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	approved := q.Get("approved")
	jobs, err := h.Store.ListFeed(r.Context(), store.FeedQuery{
		Keywords:     source.Terms(q.Get("q")),
		Industry:     strings.TrimSpace(q.Get("industry")),
		Location:     strings.TrimSpace(q.Get("location")),
		MinWage:      minWage,
		ApprovedOnly: approved == "" || approved == "true",
		Limit:        limit,
	})
	if err != nil {
		log.Printf("[http] feed query error: %v", err)
		writeError(w, r, http.StatusInternalServerError, "store_error", "could not read the feed")
		return
	}

	// Cacheable at an intermediary for a short fixed duration.
	w.Header().Set("Cache-Control", "s-maxage=300, stale-while-revalidate=60")
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

type reviewRequest struct {
	Reviewed bool `json:"reviewed"`
	Approved bool `json:"approved"`
}

// ByPath dispatches /api/jobs/{id} (DELETE → deactivate) and
// /api/jobs/{id}/review (PATCH → staff review).
func (h JobsHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	if h.Secret == "" || r.URL.Query().Get("secret") != h.Secret {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "invalid or missing secret")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/jobs/"), "/")
	parts := strings.Split(rest, "/")

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", "invalid job id")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.deactivate(w, r, id)
	case len(parts) == 2 && parts[1] == "review" && r.Method == http.MethodPatch:
		h.review(w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "not_found", "unknown job action")
	}
}

func (h JobsHandler) deactivate(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.Store.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "job not found")
			return
		}
		log.Printf("[http] deactivate error: %v", err)
		writeError(w, r, http.StatusInternalServerError, "store_error", "could not deactivate job")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (h JobsHandler) review(w http.ResponseWriter, r *http.Request, id int64) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_body", "body must be JSON with reviewed/approved booleans")
		return
	}

	if err := h.Store.SetReview(r.Context(), id, req.Reviewed, req.Approved); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "job not found")
			return
		}
		log.Printf("[http] review error: %v", err)
		writeError(w, r, http.StatusInternalServerError, "store_error", "could not update review flags")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id, "reviewed": req.Reviewed, "approved": req.Approved})
}
