package insights

import (
	"context"
	"fmt"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/agentic-docs/docintel/internal/semanticindex"
)

const googleDefaultModel = "gemini-1.5-flash"

// GoogleProvider generates insights via the Gemini generative-content API.
type GoogleProvider struct {
	apiKey string
	model  string
}

// NewGoogleProvider creates a Gemini-backed insights provider.
func NewGoogleProvider(apiKey, model string) *GoogleProvider {
	if model == "" {
		model = googleDefaultModel
	}
	return &GoogleProvider{apiKey: apiKey, model: model}
}

// Insights implements Provider.
func (p *GoogleProvider) Insights(ctx context.Context, selection string, matches []semanticindex.Result) ([]string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client; %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(selection, matches)))
	if err != nil {
		return nil, fmt.Errorf("gemini insights request failed; %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if s, ok := part.(genai.Text); ok {
			text += string(s)
		}
	}
	return splitStatements(text), nil
}
