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
	googleDefaultModel = "gemini-embedding-001"
	googleDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// GoogleProvider implements EmbeddingsProvider using Google's Generative
// Language embedContent REST API.
type GoogleProvider struct {
	apiKey      string
	model       string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// GoogleOption configures a GoogleProvider.
type GoogleOption func(*GoogleProvider)

// WithGoogleModel overrides the embedding model name.
func WithGoogleModel(model string) GoogleOption {
	return func(p *GoogleProvider) { p.model = model }
}

// WithGoogleBaseURL overrides the API endpoint, for testing against a
// local server or routing through a proxy.
func WithGoogleBaseURL(url string) GoogleOption {
	return func(p *GoogleProvider) { p.baseURL = url }
}

// WithGoogleAPIKey overrides the API key sourced from GOOGLE_API_KEY.
func WithGoogleAPIKey(key string) GoogleOption {
	return func(p *GoogleProvider) {
		if key != "" {
			p.apiKey = key
		}
	}
}

// NewGoogleProvider creates a Google embeddings provider, reading its API
// key from GOOGLE_API_KEY unless overridden via options.
func NewGoogleProvider(opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{
		apiKey:     os.Getenv("GOOGLE_API_KEY"),
		model:      googleDefaultModel,
		baseURL:    googleDefaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.rateLimiter = NewRateLimiter(p.RateLimit())
	return p
}

func (p *GoogleProvider) Name() string       { return "google-embeddings" }
func (p *GoogleProvider) Type() ProviderType { return ProviderTypeEmbeddings }
func (p *GoogleProvider) Available() bool    { return p.apiKey != "" }
func (p *GoogleProvider) ModelName() string  { return p.model }
func (p *GoogleProvider) Dimensions() int    { return 3072 }
func (p *GoogleProvider) MaxTokens() int     { return 2048 }

func (p *GoogleProvider) RateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: 300, TokensPerMinute: 1000000, BurstSize: 30}
}

// Embed generates an embedding for req.Content.
func (p *GoogleProvider) Embed(ctx context.Context, req Request) (*Result, error) {
	if !p.Available() {
		return nil, fmt.Errorf("google embeddings provider not available; GOOGLE_API_KEY not set")
	}
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed; %w", err)
	}

	apiURL := fmt.Sprintf("%s/models/%s:embedContent?key=%s", p.baseURL, p.model, p.apiKey)
	body := map[string]any{
		"model":   fmt.Sprintf("models/%s", p.model),
		"content": map[string]any{"parts": []map[string]string{{"text": req.Content}}},
	}

	var apiResp googleEmbedResponse
	if err := p.doJSON(ctx, apiURL, body, &apiResp); err != nil {
		return nil, err
	}

	embedding := toFloat32(apiResp.Embedding.Values)
	return &Result{
		Embedding:    embedding,
		ProviderName: p.Name(),
		ModelName:    p.model,
		Dimensions:   len(embedding),
		GeneratedAt:  time.Now(),
		Version:      embeddingsVersion,
	}, nil
}

// EmbedBatch embeds multiple texts via the batchEmbedContents endpoint.
func (p *GoogleProvider) EmbedBatch(ctx context.Context, texts []string) ([]BatchResult, error) {
	if !p.Available() {
		return nil, fmt.Errorf("google embeddings provider not available; GOOGLE_API_KEY not set")
	}
	if len(texts) == 0 {
		return nil, nil
	}
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed; %w", err)
	}

	apiURL := fmt.Sprintf("%s/models/%s:batchEmbedContents?key=%s", p.baseURL, p.model, p.apiKey)
	requests := make([]map[string]any, len(texts))
	for i, t := range texts {
		requests[i] = map[string]any{
			"model":   fmt.Sprintf("models/%s", p.model),
			"content": map[string]any{"parts": []map[string]string{{"text": t}}},
		}
	}

	var apiResp googleBatchEmbedResponse
	if err := p.doJSON(ctx, apiURL, map[string]any{"requests": requests}, &apiResp); err != nil {
		return nil, err
	}
	if len(apiResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embeddings count mismatch; got %d, want %d", len(apiResp.Embeddings), len(texts))
	}

	out := make([]BatchResult, len(apiResp.Embeddings))
	for i, e := range apiResp.Embeddings {
		out[i] = BatchResult{Index: i, Embedding: toFloat32(e.Values)}
	}
	return out, nil
}

func (p *GoogleProvider) doJSON(ctx context.Context, url string, reqBody, respBody any) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request; %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request; %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("API request failed; %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response; %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, respBody); err != nil {
		return fmt.Errorf("failed to parse response; %w", err)
	}
	return nil
}

type googleEmbedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

type googleBatchEmbedResponse struct {
	Embeddings []struct {
		Values []float64 `json:"values"`
	} `json:"embeddings"`
}
