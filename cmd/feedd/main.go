// feedd — entry-level job feed service for Mercer County, NJ.
//
// Aggregates listings from external job-search APIs (Adzuna, CareerOneStop)
// and the internal managed store, reconciles them into one canonical feed,
// and persists vetted records for serving.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mercerjobs/feed-service/internal/cache"
	"mercerjobs/feed-service/internal/config"
	"mercerjobs/feed-service/internal/feed"
	"mercerjobs/feed-service/internal/httpapi"
	"mercerjobs/feed-service/internal/ingest"
	"mercerjobs/feed-service/internal/scheduler"
	"mercerjobs/feed-service/internal/source"
	"mercerjobs/feed-service/internal/store"
	"mercerjobs/feed-service/internal/vet"
)

const version = "1.0.0"

const broadenSearchMessage = "No matching listings right now. Try broadening your search."

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[feedd] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[feedd] Connecting to PostgreSQL…")
	pool, err := store.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[feedd] PostgreSQL: %v", err)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("[feedd] Migration: %v", err)
	}
	log.Println("[feedd] PostgreSQL ready ✓")

	// ── Cache ────────────────────────────────────────────────────────────────
	var queryCache cache.Store
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[feedd] Redis: %v", err)
		}
		defer rdb.Close()
		queryCache = cache.NewRedis(rdb, cfg.CacheTTL)
		log.Println("[feedd] Redis cache ready ✓")
	} else {
		queryCache = cache.NewMemory(cfg.CacheTTL)
		log.Println("[feedd] REDIS_URL not set, using in-process cache")
	}

	// ── Source adapters ──────────────────────────────────────────────────────
	limiter := source.NewHostLimiter(2, 4)
	adzuna := source.NewAdzuna(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry, limiter)
	cos := source.NewCareerOneStop(cfg.COSUserID, cfg.COSAPIToken, limiter)

	if cfg.AdzunaAppID == "" || cfg.AdzunaAppKey == "" {
		log.Println("[feedd] WARNING: Adzuna credentials not set, that source will report config errors")
	}
	if cfg.COSUserID == "" || cfg.COSAPIToken == "" {
		log.Println("[feedd] WARNING: CareerOneStop credentials not set, that source will report config errors")
	}

	rules := vet.DefaultRules()

	// ── Ingestion pipeline ───────────────────────────────────────────────────
	runner := &ingest.Runner{
		Adapters: []source.Adapter{adzuna, cos},
		Store:    st,
		Rules:    rules,
		Query: source.Query{
			Keywords:   `warehouse OR healthcare OR manufacturing OR culinary OR retail OR "entry level"`,
			Location:   "Mercer County, New Jersey",
			MaxAgeDays: 3,
			PageSize:   50,
		},
	}

	// ── Serving path ─────────────────────────────────────────────────────────
	feedSvc := &feed.Service{
		// Internal store first: the stored copy wins fuzzy deduplication.
		Sources: []feed.Source{
			feed.StoreSource{Store: st},
			feed.LiveSource{Adapter: adzuna, Rules: rules},
			feed.LiveSource{Adapter: cos, Rules: rules},
		},
		Cache: queryCache,
	}
	if cfg.EmptyResultMode == "message" {
		feedSvc.EmptyMessage = broadenSearchMessage
	}

	// ── Scheduler ────────────────────────────────────────────────────────────
	if cfg.IngestIntervalHours > 0 {
		sched := scheduler.New(runner, cfg.IngestIntervalHours)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[feedd] Scheduler: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("[feedd] INGEST_INTERVAL_HOURS=0, scheduled ingestion disabled")
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := httpapi.NewMux(httpapi.Deps{
		Store:  st,
		Feed:   feedSvc,
		Runner: runner,
		Secret: cfg.CronSecret,
	})

	srv := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Port),
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.AccessLog,
			httpapi.Recover,
			httpapi.Cors,
		),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[feedd] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[feedd] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[feedd] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[feedd] Shutdown error: %v", err)
	}
	log.Println("[feedd] Stopped.")
}
