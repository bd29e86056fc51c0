// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the feed service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string // optional; empty falls back to the in-memory cache

	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string // e.g. "us"

	COSUserID   string // CareerOneStop credentials
	COSAPIToken string

	CronSecret          string // shared secret gating ingestion and admin calls
	IngestIntervalHours int    // how often the scheduled ingestion fires; 0 disables
	CacheTTL            time.Duration

	// EmptyResultMode decides how a live search with zero hits is reported:
	// "ok" returns a plain empty list, "message" adds a broaden-your-search
	// note to the response meta.
	EmptyResultMode string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	secret := os.Getenv("CRON_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("CRON_SECRET is required")
	}

	interval := 6
	if s := os.Getenv("INGEST_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("INGEST_INTERVAL_HOURS must be a non-negative integer, got %q", s)
		}
		interval = v
	}

	ttl := 5 * time.Minute
	if s := os.Getenv("CACHE_TTL_SECONDS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("CACHE_TTL_SECONDS must be a positive integer, got %q", s)
		}
		ttl = time.Duration(v) * time.Second
	}

	country := os.Getenv("ADZUNA_COUNTRY")
	if country == "" {
		country = "us"
	}

	mode := os.Getenv("EMPTY_RESULT_MODE")
	switch mode {
	case "":
		mode = "ok"
	case "ok", "message":
	default:
		return nil, fmt.Errorf("EMPTY_RESULT_MODE must be \"ok\" or \"message\", got %q", mode)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            os.Getenv("REDIS_URL"),
		AdzunaAppID:         os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:        os.Getenv("ADZUNA_APP_KEY"),
		AdzunaCountry:       country,
		COSUserID:           os.Getenv("COS_USER_ID"),
		COSAPIToken:         os.Getenv("COS_API_TOKEN"),
		CronSecret:          secret,
		IngestIntervalHours: interval,
		CacheTTL:            ttl,
		EmptyResultMode:     mode,
	}, nil
}
