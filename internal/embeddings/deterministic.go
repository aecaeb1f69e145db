package embeddings

import (
	"context"
	"math"
	"time"
)

// DeterministicProvider is the mandatory fallback embedder: for each byte
// b at position j of the UTF-8 text, b is added to vec[j mod dim], then
// the vector is L2-normalized. It requires no network or model access and
// runs hermetically, which is what makes the index operational and
// testable without any configured provider.
type DeterministicProvider struct {
	dim int
}

// NewDeterministicProvider creates a fallback embedder with the given
// output dimension (0 selects DefaultDimensions).
func NewDeterministicProvider(dim int) *DeterministicProvider {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &DeterministicProvider{dim: dim}
}

func (p *DeterministicProvider) Name() string            { return "deterministic-hash" }
func (p *DeterministicProvider) Type() ProviderType       { return ProviderTypeEmbeddings }
func (p *DeterministicProvider) Available() bool          { return true }
func (p *DeterministicProvider) ModelName() string        { return "deterministic-hash-v1" }
func (p *DeterministicProvider) Dimensions() int          { return p.dim }
func (p *DeterministicProvider) MaxTokens() int           { return math.MaxInt32 }
func (p *DeterministicProvider) RateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: math.MaxInt32, BurstSize: math.MaxInt32}
}

// Embed produces a deterministic unit vector for req.Content.
func (p *DeterministicProvider) Embed(ctx context.Context, req Request) (*Result, error) {
	vec := Hash(req.Content, p.dim)
	return &Result{
		Embedding:    vec,
		ProviderName: p.Name(),
		ModelName:    p.ModelName(),
		Dimensions:   p.dim,
		GeneratedAt:  time.Now(),
		Version:      embeddingsVersion,
	}, nil
}

// EmbedBatch embeds each text independently, preserving input order.
func (p *DeterministicProvider) EmbedBatch(ctx context.Context, texts []string) ([]BatchResult, error) {
	out := make([]BatchResult, len(texts))
	for i, t := range texts {
		out[i] = BatchResult{Index: i, Embedding: Hash(t, p.dim)}
	}
	return out, nil
}

// Hash implements the deterministic hashing embedding: byte value
// accumulated into vec[j % dim], then L2-normalized with an epsilon guard
// against the all-zero input edge case.
func Hash(text string, dim int) []float32 {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	vec := make([]float64, dim)
	for j := 0; j < len(text); j++ {
		vec[j%dim] += float64(text[j])
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm < 1e-12 {
		norm = 1e-12
	}

	out := make([]float32, dim)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}
