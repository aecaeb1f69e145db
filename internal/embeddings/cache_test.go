package embeddings

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestCache_DisabledIsNoOp(t *testing.T) {
	c := NewCache("", time.Hour)
	if c.Enabled() {
		t.Fatal("expected an empty address to disable caching")
	}
	if _, ok := c.Get(context.Background(), "p", "hash"); ok {
		t.Fatal("expected Get to miss on a disabled cache")
	}
	if err := c.Set(context.Background(), "p", "hash", &Result{}); err != nil {
		t.Fatalf("expected Set on a disabled cache to be a no-op, got error: %v", err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("expected Ping on a disabled cache to be a no-op, got error: %v", err)
	}
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewCache(mr.Addr(), time.Hour), mr
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	want := &Result{Embedding: []float32{1, 2, 3}, ProviderName: "deterministic-hash", ModelName: "deterministic-hash-v1", Dimensions: 3}
	if err := c.Set(ctx, want.ProviderName, "abc123", want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := c.Get(ctx, want.ProviderName, "abc123")
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if got.Dimensions != want.Dimensions || len(got.Embedding) != len(want.Embedding) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t)
	if _, ok := c.Get(context.Background(), "provider", "never-set"); ok {
		t.Fatal("expected miss for a key never written")
	}
}

func TestCache_KeyedByProviderAndHash(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	c.Set(ctx, "provider-a", "samehash", &Result{ProviderName: "provider-a"})

	if _, ok := c.Get(ctx, "provider-b", "samehash"); ok {
		t.Fatal("expected cache entries to be isolated per provider name")
	}
}

func TestCache_Ping(t *testing.T) {
	c, mr := newTestCache(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected Ping to fail once the backing server is closed")
	}
}

type fakeProvider struct {
	EmbeddingsProvider
	calls int
}

func (f *fakeProvider) Name() string { return "fake-provider" }
func (f *fakeProvider) Embed(ctx context.Context, req Request) (*Result, error) {
	f.calls++
	return &Result{Embedding: Hash(req.Content, 8), ProviderName: f.Name(), Dimensions: 8}, nil
}

func TestCachedProvider_CachesOnMiss(t *testing.T) {
	cache, _ := newTestCache(t)
	inner := &fakeProvider{}
	cp := NewCachedProvider(inner, cache)

	ctx := context.Background()
	req := Request{Content: "repeated text"}

	if _, err := cp.Embed(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cp.Embed(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.calls != 1 {
		t.Fatalf("expected the wrapped provider to be called once, got %d calls", inner.calls)
	}
}

func TestCachedProvider_PassthroughWhenDisabled(t *testing.T) {
	inner := &fakeProvider{}
	cp := NewCachedProvider(inner, NewCache("", time.Hour))

	ctx := context.Background()
	req := Request{Content: "x"}
	cp.Embed(ctx, req)
	cp.Embed(ctx, req)

	if inner.calls != 2 {
		t.Fatalf("expected both calls to reach the wrapped provider when caching is disabled, got %d", inner.calls)
	}
}

func TestContentHash_Stable(t *testing.T) {
	a := ContentHash("hello")
	b := ContentHash("hello")
	if a != b {
		t.Fatal("expected ContentHash to be deterministic")
	}
	if a == ContentHash("world") {
		t.Fatal("expected different content to hash differently")
	}
}
