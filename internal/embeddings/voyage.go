package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	voyageAPIURL       = "https://api.voyageai.com/v1/embeddings"
	voyageDefaultModel = "voyage-code-3"
)

// VoyageProvider implements EmbeddingsProvider using Voyage AI's REST API.
type VoyageProvider struct {
	apiKey      string
	model       string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// VoyageOption configures a VoyageProvider.
type VoyageOption func(*VoyageProvider)

// WithVoyageModel overrides the embedding model name.
func WithVoyageModel(model string) VoyageOption {
	return func(p *VoyageProvider) { p.model = model }
}

// WithVoyageBaseURL overrides the API endpoint, for testing against a
// local server or routing through a proxy.
func WithVoyageBaseURL(url string) VoyageOption {
	return func(p *VoyageProvider) { p.baseURL = url }
}

// WithVoyageAPIKey overrides the API key sourced from VOYAGE_API_KEY.
func WithVoyageAPIKey(key string) VoyageOption {
	return func(p *VoyageProvider) {
		if key != "" {
			p.apiKey = key
		}
	}
}

// NewVoyageProvider creates a Voyage embeddings provider, reading its API
// key from VOYAGE_API_KEY unless overridden via options.
func NewVoyageProvider(opts ...VoyageOption) *VoyageProvider {
	p := &VoyageProvider{
		apiKey:     os.Getenv("VOYAGE_API_KEY"),
		model:      voyageDefaultModel,
		baseURL:    voyageAPIURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.rateLimiter = NewRateLimiter(p.RateLimit())
	return p
}

func (p *VoyageProvider) Name() string       { return "voyage-embeddings" }
func (p *VoyageProvider) Type() ProviderType { return ProviderTypeEmbeddings }
func (p *VoyageProvider) Available() bool    { return p.apiKey != "" }
func (p *VoyageProvider) ModelName() string  { return p.model }
func (p *VoyageProvider) Dimensions() int    { return 1024 }
func (p *VoyageProvider) MaxTokens() int     { return 32000 }

func (p *VoyageProvider) RateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: 300, TokensPerMinute: 1000000, BurstSize: 30}
}

// Embed generates an embedding for req.Content.
func (p *VoyageProvider) Embed(ctx context.Context, req Request) (*Result, error) {
	if !p.Available() {
		return nil, fmt.Errorf("voyage embeddings provider not available; VOYAGE_API_KEY not set")
	}
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed; %w", err)
	}

	apiResp, err := p.call(ctx, []string{req.Content})
	if err != nil {
		return nil, err
	}
	if len(apiResp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embedding := toFloat32(apiResp.Data[0].Embedding)
	return &Result{
		Embedding:    embedding,
		ProviderName: p.Name(),
		ModelName:    p.model,
		Dimensions:   len(embedding),
		TokensUsed:   apiResp.Usage.TotalTokens,
		GeneratedAt:  time.Now(),
		Version:      embeddingsVersion,
	}, nil
}

// EmbedBatch embeds multiple texts in a single API call, preserving order.
func (p *VoyageProvider) EmbedBatch(ctx context.Context, texts []string) ([]BatchResult, error) {
	if !p.Available() {
		return nil, fmt.Errorf("voyage embeddings provider not available; VOYAGE_API_KEY not set")
	}
	if len(texts) == 0 {
		return nil, nil
	}
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed; %w", err)
	}

	apiResp, err := p.call(ctx, texts)
	if err != nil {
		return nil, err
	}

	out := make([]BatchResult, len(apiResp.Data))
	for i, d := range apiResp.Data {
		out[i] = BatchResult{Index: d.Index, Embedding: toFloat32(d.Embedding)}
	}
	return out, nil
}

func (p *VoyageProvider) call(ctx context.Context, input []string) (*voyageEmbeddingsResponse, error) {
	body, err := json.Marshal(map[string]any{"model": p.model, "input": input})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request; %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request; %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("API request failed; %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response; %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp voyageEmbeddingsResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response; %w", err)
	}
	return &apiResp, nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

type voyageEmbeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}
