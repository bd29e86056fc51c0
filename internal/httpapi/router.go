package httpapi

import (
	"net/http"
	"time"
)

// NewMux mounts every route. main wraps the result with the middleware chain.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: healthHandler,
	}))

	jh := JobsHandler{Store: d.Store, Secret: d.Secret}
	mux.HandleFunc("/api/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/api/jobs/", jh.ByPath)

	sh := SearchHandler{Feed: d.Feed, Secret: d.Secret}
	mux.HandleFunc("/api/search", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Get,
	}))

	ih := IngestHandler{Runner: d.Runner, Secret: d.Secret}
	mux.HandleFunc("/api/ingest", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ih.Run,
	}))

	mh := MetricsHandler{Store: d.Store}
	mux.HandleFunc("/api/metrics", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.Get,
	}))

	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "feed-service",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
