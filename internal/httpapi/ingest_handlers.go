package httpapi

import (
	"log"
	"net/http"

	"mercerjobs/feed-service/internal/ingest"
)

// IngestHandler exposes the scheduled pipeline as an administrative trigger.
type IngestHandler struct {
	Runner *ingest.Runner
	Secret string
}

// Run handles POST /api/ingest?secret=... Unauthorized callers are rejected
// before any upstream call is made; there is no partial execution.
func (h IngestHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.Secret == "" || r.URL.Query().Get("secret") != h.Secret {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "invalid or missing secret")
		return
	}

	sum, err := h.Runner.Run(r.Context())
	if err != nil {
		// Upsert is idempotent, so the whole run is safely retryable.
		log.Printf("[http] ingestion run %s failed: %v", sum.RunID, err)
		writeError(w, r, http.StatusInternalServerError, "persist_error", "ingestion failed; safe to retry")
		return
	}

	writeJSON(w, http.StatusOK, sum)
}
