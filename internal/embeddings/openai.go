package embeddings

import (
	"context"
	"fmt"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const openaiDefaultModel = "text-embedding-3-small"

// OpenAIProvider implements EmbeddingsProvider using OpenAI's embeddings API.
type OpenAIProvider struct {
	apiKey      string
	model       string
	baseURL     string
	client      *openai.Client
	rateLimiter *RateLimiter
}

// OpenAIOption configures an OpenAIProvider.
type OpenAIOption func(*OpenAIProvider)

// WithOpenAIModel overrides the embedding model name.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) { p.model = model }
}

// WithOpenAIBaseURL overrides the API endpoint, for testing against a
// local server or routing through a proxy.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(p *OpenAIProvider) { p.baseURL = url }
}

// WithOpenAIAPIKey overrides the API key sourced from OPENAI_API_KEY.
func WithOpenAIAPIKey(key string) OpenAIOption {
	return func(p *OpenAIProvider) {
		if key != "" {
			p.apiKey = key
		}
	}
}

// NewOpenAIProvider creates a new OpenAI embeddings provider, reading its
// API key from OPENAI_API_KEY unless overridden via options.
func NewOpenAIProvider(opts ...OpenAIOption) *OpenAIProvider {
	p := &OpenAIProvider{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		model:  openaiDefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.apiKey != "" {
		if p.baseURL != "" {
			cfg := openai.DefaultConfig(p.apiKey)
			cfg.BaseURL = p.baseURL
			p.client = openai.NewClientWithConfig(cfg)
		} else {
			p.client = openai.NewClient(p.apiKey)
		}
	}
	p.rateLimiter = NewRateLimiter(p.RateLimit())
	return p
}

func (p *OpenAIProvider) Name() string      { return "openai-embeddings" }
func (p *OpenAIProvider) Type() ProviderType { return ProviderTypeEmbeddings }
func (p *OpenAIProvider) Available() bool   { return p.apiKey != "" }
func (p *OpenAIProvider) ModelName() string { return p.model }
func (p *OpenAIProvider) Dimensions() int   { return 1536 }
func (p *OpenAIProvider) MaxTokens() int    { return 8191 }

func (p *OpenAIProvider) RateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: 500, TokensPerMinute: 1000000, BurstSize: 50}
}

// Embed generates an embedding for req.Content.
func (p *OpenAIProvider) Embed(ctx context.Context, req Request) (*Result, error) {
	if !p.Available() {
		return nil, fmt.Errorf("openai embeddings provider not available; OPENAI_API_KEY not set")
	}
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed; %w", err)
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{req.Content},
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings request failed; %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embedding := make([]float32, len(resp.Data[0].Embedding))
	copy(embedding, resp.Data[0].Embedding)

	return &Result{
		Embedding:    embedding,
		ProviderName: p.Name(),
		ModelName:    p.model,
		Dimensions:   len(embedding),
		TokensUsed:   resp.Usage.TotalTokens,
		GeneratedAt:  time.Now(),
		Version:      embeddingsVersion,
	}, nil
}

// EmbedBatch embeds multiple texts in a single API call.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([]BatchResult, error) {
	if !p.Available() {
		return nil, fmt.Errorf("openai embeddings provider not available; OPENAI_API_KEY not set")
	}
	if len(texts) == 0 {
		return nil, nil
	}
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed; %w", err)
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings request failed; %w", err)
	}

	out := make([]BatchResult, len(resp.Data))
	for i, d := range resp.Data {
		embedding := make([]float32, len(d.Embedding))
		copy(embedding, d.Embedding)
		out[i] = BatchResult{Index: d.Index, Embedding: embedding}
	}
	return out, nil
}
