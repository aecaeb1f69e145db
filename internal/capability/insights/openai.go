package insights

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/agentic-docs/docintel/internal/semanticindex"
)

const openaiDefaultModel = "gpt-4o-mini"

// OpenAIProvider generates insights via OpenAI chat completions.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI-backed insights provider.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openaiDefaultModel
	}
	return &OpenAIProvider{client: openai.NewClient(apiKey), model: model}
}

// Insights implements Provider.
func (p *OpenAIProvider) Insights(ctx context.Context, selection string, matches []semanticindex.Result) ([]string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(selection, matches)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai insights request failed; %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}
	return splitStatements(resp.Choices[0].Message.Content), nil
}
