// Package httpapi exposes the service over HTTP: the public feed and live
// search reads, the secret-gated ingestion trigger and staff mutations, and
// the aggregate metrics endpoint.
package httpapi

import (
	"mercerjobs/feed-service/internal/feed"
	"mercerjobs/feed-service/internal/ingest"
	"mercerjobs/feed-service/internal/store"
)

// Deps holds shared handler dependencies, injected by main.
type Deps struct {
	Store  *store.Store
	Feed   *feed.Service
	Runner *ingest.Runner

	// Secret gates ingestion and staff mutations. Unauthorized callers are
	// rejected before any work starts.
	Secret string
}
