package ingest_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"mercerjobs/feed-service/internal/ingest"
	"mercerjobs/feed-service/internal/model"
	"mercerjobs/feed-service/internal/source"
	"mercerjobs/feed-service/internal/vet"
)

// fakeAdapter is a source.Adapter with canned raw records.
type fakeAdapter struct {
	name string
	raws []model.RawJob
	err  error
}

func (f fakeAdapter) Name() string { return f.name }

func (f fakeAdapter) Fetch(_ context.Context, _ source.Query) ([]model.RawJob, error) {
	return f.raws, f.err
}

// fakeUpserter records what the pipeline hands to persistence.
type fakeUpserter struct {
	batches [][]model.Listing
	err     error
}

func (f *fakeUpserter) Upsert(_ context.Context, listings []model.Listing) (int64, error) {
	f.batches = append(f.batches, listings)
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(listings)), nil
}

func raw(id, title string) model.RawJob {
	return model.RawJob{
		ExternalID:  id,
		Title:       title,
		Company:     "Acme",
		Location:    "Trenton, NJ",
		Description: "Entry-level work.",
		ApplyLink:   "https://www.indeed.com/viewjob?jk=" + id,
	}
}

// ── Run accounting ─────────────────────────────────────────────────────────

func TestRun_CountsFetchedQueuedDropped(t *testing.T) {
	noLink := raw("x-3", "Greeter")
	noLink.ApplyLink = "" // unusable identity, must be dropped

	up := &fakeUpserter{}
	r := &ingest.Runner{
		Adapters: []source.Adapter{
			fakeAdapter{name: "adzuna", raws: []model.RawJob{raw("a-1", "Warehouse Associate"), raw("a-2", "Line Cook")}},
			fakeAdapter{name: "careeronestop", raws: []model.RawJob{noLink}},
		},
		Store: up,
		Rules: vet.DefaultRules(),
	}

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.Fetched != 3 || sum.Queued != 2 || sum.Dropped != 1 {
		t.Errorf("fetched/queued/dropped = %d/%d/%d, want 3/2/1", sum.Fetched, sum.Queued, sum.Dropped)
	}
	if sum.Upserted != 2 {
		t.Errorf("Upserted = %d, want 2", sum.Upserted)
	}
	if sum.RunID == "" {
		t.Error("run must carry an id for log correlation")
	}
	if len(up.batches) != 1 || len(up.batches[0]) != 2 {
		t.Fatalf("persistence received %v, want one batch of 2", up.batches)
	}
}

func TestRun_FailedSourceIsIsolated(t *testing.T) {
	up := &fakeUpserter{}
	r := &ingest.Runner{
		Adapters: []source.Adapter{
			fakeAdapter{name: "adzuna", err: source.Errorf(source.KindHTTPStatus, "adzuna returned 500")},
			fakeAdapter{name: "careeronestop", raws: []model.RawJob{raw("c-1", "Stock Clerk")}},
		},
		Store: up,
		Rules: vet.DefaultRules(),
	}

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.Sources["adzuna"].Error == "" {
		t.Error("failed source should carry its error in the report")
	}
	if sum.Sources["careeronestop"].Fetched != 1 {
		t.Errorf("healthy source report = %+v", sum.Sources["careeronestop"])
	}
	if sum.Upserted != 1 {
		t.Errorf("Upserted = %d, want the healthy source's record persisted", sum.Upserted)
	}
}

func TestRun_PersistFailureReturnsPartialSummary(t *testing.T) {
	up := &fakeUpserter{err: errors.New("connection reset")}
	r := &ingest.Runner{
		Adapters: []source.Adapter{
			fakeAdapter{name: "adzuna", raws: []model.RawJob{raw("a-1", "Warehouse Associate")}},
		},
		Store: up,
		Rules: vet.DefaultRules(),
	}

	sum, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("persistence failure must surface")
	}
	if sum.Fetched != 1 || sum.Queued != 1 {
		t.Errorf("partial summary = %+v, want fetch accounting preserved", sum)
	}
}

// ── Idempotence ────────────────────────────────────────────────────────────

func TestRun_SameSnapshotYieldsSamePlan(t *testing.T) {
	adapters := []source.Adapter{
		fakeAdapter{name: "adzuna", raws: []model.RawJob{raw("a-1", "Warehouse Associate"), raw("a-2", "Line Cook")}},
		fakeAdapter{name: "careeronestop", raws: []model.RawJob{raw("c-1", "Stock Clerk")}},
	}

	up := &fakeUpserter{}
	r := &ingest.Runner{Adapters: adapters, Store: up, Rules: vet.DefaultRules()}

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(up.batches) != 2 {
		t.Fatalf("persistence received %d batches, want 2", len(up.batches))
	}
	first, second := identitySet(up.batches[0]), identitySet(up.batches[1])
	if len(first) != len(second) {
		t.Fatalf("plans differ in size: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("plans diverge at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func identitySet(listings []model.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		if l.ExternalID != nil {
			out = append(out, string(l.Source)+":"+*l.ExternalID)
		}
	}
	sort.Strings(out)
	return out
}

// ── Vetting on the way in ──────────────────────────────────────────────────

func TestRun_StampsVerdictBeforePersisting(t *testing.T) {
	bad := raw("a-9", "Crypto Trading Assistant")

	up := &fakeUpserter{}
	r := &ingest.Runner{
		Adapters: []source.Adapter{fakeAdapter{name: "adzuna", raws: []model.RawJob{bad}}},
		Store:    up,
		Rules:    vet.DefaultRules(),
	}

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(up.batches) != 1 || len(up.batches[0]) != 1 {
		t.Fatalf("persistence received %v, want the flagged record (stored, not served)", up.batches)
	}
	got := up.batches[0][0]
	if got.Approved {
		t.Error("flagged record must arrive unapproved")
	}
	if len(got.FlaggedReasons) == 0 {
		t.Error("flagged record must carry its reasons")
	}
}
