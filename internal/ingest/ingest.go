// Package ingest runs the scheduled ingestion pipeline: fan out to every
// external source, normalise and vet what came back, deduplicate by identity
// and upsert the survivors. One invocation is one run; runs are idempotent
// because the persistence gateway merges on the identity key.
package ingest

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mercerjobs/feed-service/internal/dedupe"
	"mercerjobs/feed-service/internal/model"
	"mercerjobs/feed-service/internal/normalize"
	"mercerjobs/feed-service/internal/source"
	"mercerjobs/feed-service/internal/vet"
)

const defaultAdapterTimeout = 30 * time.Second

// Upserter is the slice of the persistence gateway the pipeline needs.
// Satisfied by *store.Store.
type Upserter interface {
	Upsert(ctx context.Context, listings []model.Listing) (int64, error)
}

// Runner owns the ingestion pipeline dependencies.
type Runner struct {
	Adapters []source.Adapter
	Store    Upserter
	Rules    vet.Rules
	Query    source.Query  // configured ingest window
	Timeout  time.Duration // per-adapter call bound; 0 = default
}

// SourceReport describes one source's contribution to a run.
type SourceReport struct {
	Fetched int    `json:"fetched"`
	Error   string `json:"error,omitempty"`
}

// Summary is the outcome of one ingestion run.
type Summary struct {
	RunID      string                  `json:"run_id"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	Fetched    int                     `json:"fetched"`
	Queued     int                     `json:"queued"`
	Dropped    int                     `json:"dropped"` // no usable identity
	Upserted   int64                   `json:"upserted"`
	Sources    map[string]SourceReport `json:"sources"`
}

type fetchOutcome struct {
	name string
	raws []model.RawJob
	err  error
}

// Run executes one full ingestion cycle. Adapter failures degrade that
// source's contribution to zero records and never abort the run; only a
// persistence failure is returned as an error, alongside the partial summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	sum := Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Sources:   make(map[string]SourceReport, len(r.Adapters)),
	}
	log.Printf("[ingest] run %s started, %d source(s)", sum.RunID, len(r.Adapters))

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultAdapterTimeout
	}

	outcomes := make(chan fetchOutcome, len(r.Adapters))
	var g errgroup.Group
	for _, a := range r.Adapters {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			raws, err := a.Fetch(fctx, r.Query)
			// best effort: a failed source must not cancel its siblings
			outcomes <- fetchOutcome{name: a.Name(), raws: raws, err: err}
			return nil
		})
	}
	_ = g.Wait()
	close(outcomes)

	var vetted []model.Listing
	for o := range outcomes {
		report := SourceReport{Fetched: len(o.raws)}
		if o.err != nil {
			report.Error = source.Classify(o.err).Error()
			log.Printf("[ingest] source %s failed: %v", o.name, o.err)
		}
		sum.Sources[o.name] = report
		sum.Fetched += len(o.raws)

		for _, raw := range o.raws {
			l := normalize.Listing(raw, model.SourceExternal)
			vetted = append(vetted, vet.Apply(l, r.Rules))
		}
	}

	queued := dedupe.ByIdentity(vetted)
	sum.Queued = len(queued)
	sum.Dropped = len(vetted) - len(queued)

	written, err := r.Store.Upsert(ctx, queued)
	sum.Upserted = written
	sum.FinishedAt = time.Now().UTC()

	if err != nil {
		log.Printf("[ingest] run %s upsert failed: %v", sum.RunID, err)
		return sum, err
	}

	log.Printf("[ingest] run %s done: fetched=%d queued=%d dropped=%d upserted=%d",
		sum.RunID, sum.Fetched, sum.Queued, sum.Dropped, sum.Upserted)
	return sum, nil
}
