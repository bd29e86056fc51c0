package httpapi

import (
	"log"
	"net/http"

	"mercerjobs/feed-service/internal/store"
)

// MetricsHandler serves the aggregate industry breakdown.
type MetricsHandler struct {
	Store *store.Store
}

// Get handles GET /api/metrics.
func (h MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.IndustryMetrics(r.Context())
	if err != nil {
		log.Printf("[http] metrics query error: %v", err)
		writeError(w, r, http.StatusInternalServerError, "store_error", "could not compute metrics")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"industries": stats})
}
