package cache_test

import (
	"context"
	"testing"
	"time"

	"mercerjobs/feed-service/internal/cache"
)

// ── Query signatures ───────────────────────────────────────────────────────

func TestSignature_TokenOrderIndependent(t *testing.T) {
	a := cache.Signature("Warehouse OR Retail", "Trenton NJ", 3, 20)
	b := cache.Signature("retail or warehouse", "nj trenton", 3, 20)
	if a != b {
		t.Errorf("equivalent queries diverge:\n  %s\n  %s", a, b)
	}
}

func TestSignature_WhitespaceCollapsed(t *testing.T) {
	a := cache.Signature("line  cook", "Hamilton,   NJ", 7, 50)
	b := cache.Signature("line cook", "Hamilton, NJ", 7, 50)
	if a != b {
		t.Errorf("whitespace variants diverge:\n  %s\n  %s", a, b)
	}
}

func TestSignature_ParametersDiscriminate(t *testing.T) {
	base := cache.Signature("cook", "Trenton", 3, 20)
	cases := map[string]string{
		"keywords": cache.Signature("chef", "Trenton", 3, 20),
		"location": cache.Signature("cook", "Ewing", 3, 20),
		"days":     cache.Signature("cook", "Trenton", 7, 20),
		"limit":    cache.Signature("cook", "Trenton", 3, 50),
	}
	for name, sig := range cases {
		if sig == base {
			t.Errorf("changing %s should change the signature", name)
		}
	}
}

// ── In-process store ───────────────────────────────────────────────────────

func TestMemory_HitBeforeTTLMissAfter(t *testing.T) {
	clock := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	m := cache.NewMemoryWithClock(5*time.Minute, func() time.Time { return clock })
	ctx := context.Background()

	m.Set(ctx, "k", []byte("payload"))

	clock = clock.Add(5*time.Minute - time.Second)
	if got, ok := m.Get(ctx, "k"); !ok || string(got) != "payload" {
		t.Errorf("one second before expiry: ok=%v payload=%q, want hit", ok, got)
	}

	clock = clock.Add(2 * time.Second)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("past TTL: want miss")
	}
}

func TestMemory_MissOnUnknownKey(t *testing.T) {
	m := cache.NewMemory(time.Minute)
	if _, ok := m.Get(context.Background(), "nope"); ok {
		t.Error("unknown key should miss")
	}
}

func TestMemory_SetRefreshesTTL(t *testing.T) {
	clock := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	m := cache.NewMemoryWithClock(time.Minute, func() time.Time { return clock })
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v1"))
	clock = clock.Add(50 * time.Second)
	m.Set(ctx, "k", []byte("v2"))
	clock = clock.Add(50 * time.Second)

	got, ok := m.Get(ctx, "k")
	if !ok || string(got) != "v2" {
		t.Errorf("rewrite should restart the TTL, got ok=%v payload=%q", ok, got)
	}
}
