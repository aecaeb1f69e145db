// Package embeddings provides pluggable dense-vector embedding backends
// with a mandatory deterministic fallback, rate limiting, and an optional
// distributed cache.
package embeddings

import (
	"context"
	"time"
)

// ProviderType distinguishes embedding providers from other provider kinds
// a future capability interface might register.
type ProviderType string

const ProviderTypeEmbeddings ProviderType = "embeddings"

// Provider is the base interface every embeddings backend satisfies.
type Provider interface {
	Name() string
	Type() ProviderType
	Available() bool
	RateLimit() RateLimitConfig
}

// RateLimitConfig configures a token-bucket limiter for a provider.
type RateLimitConfig struct {
	RequestsPerMinute int
	TokensPerMinute   int
	BurstSize         int
}

// EmbeddingsProvider generates vector embeddings from text content.
type EmbeddingsProvider interface {
	Provider

	Embed(ctx context.Context, req Request) (*Result, error)
	EmbedBatch(ctx context.Context, texts []string) ([]BatchResult, error)
	ModelName() string
	Dimensions() int
	MaxTokens() int
}

// Request is a single embedding request.
type Request struct {
	Content     string
	ChunkID     string
	ContentHash string
}

// Result is the outcome of a single Embed call.
type Result struct {
	Embedding    []float32 `json:"embedding"`
	ProviderName string    `json:"provider_name"`
	ModelName    string    `json:"model_name"`
	Dimensions   int       `json:"dimensions"`
	TokensUsed   int       `json:"tokens_used"`
	GeneratedAt  time.Time `json:"generated_at"`
	Version      int       `json:"version"`
}

// BatchResult is one element of an EmbedBatch response.
type BatchResult struct {
	Index      int       `json:"index"`
	Embedding  []float32 `json:"embedding"`
	TokensUsed int       `json:"tokens_used"`
}

const embeddingsVersion = 1

// DefaultDimensions is the embedder's output dimension when no override is
// configured (BGE-small class).
const DefaultDimensions = 384
