package embeddings

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_TryAcquire(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 60, BurstSize: 1})
	if !rl.TryAcquire() {
		t.Fatal("expected first acquire to succeed with burst 1")
	}
	if rl.TryAcquire() {
		t.Fatal("expected immediate second acquire to fail with burst exhausted")
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 6000, BurstSize: 5})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("unexpected error on wait %d: %v", i, err)
		}
	}
}

func TestRateLimiter_WaitRespectsContextCancellation(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	rl.TryAcquire()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Fatal("expected error once context deadline is exceeded")
	}
}

func TestRateLimiter_ZeroConfigDefaults(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	if !rl.TryAcquire() {
		t.Fatal("expected zero-value config to still produce a usable limiter")
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	m := NewManager()
	cfg := RateLimitConfig{RequestsPerMinute: 60, BurstSize: 10}

	a := m.GetOrCreate("openai-embeddings", cfg)
	b := m.GetOrCreate("openai-embeddings", cfg)
	if a != b {
		t.Fatal("expected GetOrCreate to return the same limiter instance for the same provider name")
	}

	c := m.GetOrCreate("voyage-embeddings", cfg)
	if a == c {
		t.Fatal("expected distinct limiters for distinct provider names")
	}
}

func TestManager_Get(t *testing.T) {
	m := NewManager()
	if _, ok := m.Get("unknown"); ok {
		t.Fatal("expected Get to report false for a provider never created")
	}

	created := m.GetOrCreate("google-embeddings", RateLimitConfig{RequestsPerMinute: 60})
	found, ok := m.Get("google-embeddings")
	if !ok || found != created {
		t.Fatal("expected Get to return the limiter created by GetOrCreate")
	}
}
