package embeddings

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "docintel:embed:"

// Cache fronts an EmbeddingsProvider with a Redis-backed lookup keyed by
// content hash, so re-ingesting unchanged text skips the provider entirely.
// A nil client disables caching without the caller needing to branch.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wires a cache against addr. An empty addr disables caching; Get
// and Set then become no-ops so callers never need to check Enabled first.
func NewCache(addr string, ttl time.Duration) *Cache {
	if addr == "" {
		return &Cache{}
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Enabled reports whether this cache is backed by a live Redis client.
func (c *Cache) Enabled() bool { return c.client != nil }

// ContentHash returns the cache key component identifying text's content,
// independent of which provider produced the embedding.
func ContentHash(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

func cacheKey(providerName, contentHash string) string {
	return cacheKeyPrefix + providerName + ":" + contentHash
}

// Get returns a cached Result for providerName+contentHash, if present.
func (c *Cache) Get(ctx context.Context, providerName, contentHash string) (*Result, bool) {
	if !c.Enabled() {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(providerName, contentHash)).Bytes()
	if err != nil {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Set stores result under providerName+contentHash with the cache's TTL.
func (c *Cache) Set(ctx context.Context, providerName, contentHash string, result *Result) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding result; %w", err)
	}
	return c.client.Set(ctx, cacheKey(providerName, contentHash), raw, c.ttl).Err()
}

// Ping verifies connectivity to the backing Redis instance.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection pool.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// CachedProvider wraps an EmbeddingsProvider with a Cache, serving Embed
// calls from cache when possible and writing results back on miss.
type CachedProvider struct {
	EmbeddingsProvider
	cache *Cache
}

// NewCachedProvider wraps provider with cache. A disabled cache makes this
// a pure passthrough.
func NewCachedProvider(provider EmbeddingsProvider, cache *Cache) *CachedProvider {
	return &CachedProvider{EmbeddingsProvider: provider, cache: cache}
}

// Embed serves req from cache when present, otherwise delegates to the
// wrapped provider and caches the result.
func (c *CachedProvider) Embed(ctx context.Context, req Request) (*Result, error) {
	hash := req.ContentHash
	if hash == "" {
		hash = ContentHash(req.Content)
	}
	if cached, ok := c.cache.Get(ctx, c.EmbeddingsProvider.Name(), hash); ok {
		return cached, nil
	}

	result, err := c.EmbeddingsProvider.Embed(ctx, req)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, c.EmbeddingsProvider.Name(), hash, result)
	return result, nil
}
