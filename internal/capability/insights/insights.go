// Package insights generates narrative summaries over a query selection
// and its matching sections, backing the optional /insights HTTP route.
package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentic-docs/docintel/internal/config"
	"github.com/agentic-docs/docintel/internal/semanticindex"
)

// Provider generates insight statements from a query selection and its
// matching sections.
type Provider interface {
	// Insights returns a short list of narrative statements about
	// selection in light of matches. Returns an empty slice, never an
	// error, when there is nothing worth saying.
	Insights(ctx context.Context, selection string, matches []semanticindex.Result) ([]string, error)
}

// NewFromConfig builds the configured insights provider. An unset or
// "none" provider, or a missing API key, returns the disabled adapter
// rather than an error: the service runs fully functional with insights
// off.
func NewFromConfig(cfg config.InsightsConfig) Provider {
	if !cfg.Enabled {
		return Disabled{}
	}

	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return Disabled{}
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(apiKey, cfg.Model)
	case "anthropic":
		return NewAnthropicProvider(apiKey, cfg.Model)
	case "google":
		return NewGoogleProvider(apiKey, cfg.Model)
	default:
		return Disabled{}
	}
}

// Disabled is the no-op provider returned when insights are unconfigured.
type Disabled struct{}

// Insights always returns an empty result.
func (Disabled) Insights(ctx context.Context, selection string, matches []semanticindex.Result) ([]string, error) {
	return nil, nil
}

// buildPrompt renders the selection and its matching sections into a
// single prompt shared across every chat-completion-backed adapter.
func buildPrompt(selection string, matches []semanticindex.Result) string {
	var b strings.Builder
	b.WriteString("A reader highlighted the following passage:\n\n")
	b.WriteString(selection)
	b.WriteString("\n\nHere are related sections found elsewhere in the document set:\n\n")
	for i, m := range matches {
		title := m.SectionHeading
		if title == "" {
			title = m.Title
		}
		fmt.Fprintf(&b, "%d. [%s, p.%d] %s\n", i+1, title, m.Page, m.Snippet)
	}
	b.WriteString("\nWrite up to 5 short, standalone insight statements connecting the highlighted passage to the related sections. One statement per line, no numbering or bullets.")
	return b.String()
}

// splitStatements turns a freeform completion into a slice of statements,
// one per non-empty line, stripped of any leading bullet/numbering noise.
func splitStatements(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789. )")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
