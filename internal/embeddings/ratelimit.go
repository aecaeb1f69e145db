package embeddings

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter provides token bucket rate limiting for API calls, backed by
// golang.org/x/time/rate so the bucket math and clock handling are the
// ecosystem's rather than hand-rolled.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter from a provider's configuration.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	burst := config.BurstSize
	if burst == 0 {
		burst = config.RequestsPerMinute
	}
	if burst == 0 {
		burst = 1
	}

	perSecond := float64(config.RequestsPerMinute) / 60.0
	if perSecond <= 0 {
		perSecond = 1
	}

	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// TryAcquire attempts to acquire a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	return r.limiter.Allow()
}

// Available returns an estimate of currently available tokens.
func (r *RateLimiter) Available() float64 {
	return r.limiter.Tokens()
}

// Manager caches one RateLimiter per provider name.
type Manager struct {
	mu       sync.RWMutex
	limiters map[string]*RateLimiter
}

// NewManager creates an empty rate limiter manager.
func NewManager() *Manager {
	return &Manager{limiters: make(map[string]*RateLimiter)}
}

// GetOrCreate returns the limiter for providerName, creating it on first use.
func (m *Manager) GetOrCreate(providerName string, config RateLimitConfig) *RateLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.limiters[providerName]; ok {
		return l
	}
	l := NewRateLimiter(config)
	m.limiters[providerName] = l
	return l
}

// Get returns the limiter for providerName if one has been created.
func (m *Manager) Get(providerName string) (*RateLimiter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.limiters[providerName]
	return l, ok
}
