package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agentic-docs/docintel/internal/semanticindex"
)

const (
	anthropicDefaultModel = "claude-3-5-haiku-latest"
	anthropicBaseURL      = "https://api.anthropic.com/v1/messages"
	anthropicVersion      = "2023-06-01"
)

// AnthropicProvider generates insights via the Messages API. No official
// Anthropic Go SDK is available in the dependency pack this service was
// built from, so requests go over plain net/http, mirroring the same
// REST-without-SDK pattern already used by embeddings.GoogleProvider.
type AnthropicProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicProvider creates an Anthropic-backed insights provider.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = anthropicDefaultModel
	}
	return &AnthropicProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Insights implements Provider.
func (p *AnthropicProvider) Insights(ctx context.Context, selection string, matches []semanticindex.Result) ([]string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     p.model,
		MaxTokens: 512,
		Messages:  []anthropicMessage{{Role: "user", Content: buildPrompt(selection, matches)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode anthropic request; %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicBaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build anthropic request; %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic insights request failed; %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read anthropic response; %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode anthropic response; %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("anthropic insights request failed; %s", parsed.Error.Message)
	}

	var text string
	for _, c := range parsed.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	return splitStatements(text), nil
}
