package insights

import (
	"strings"
	"testing"

	"github.com/agentic-docs/docintel/internal/config"
	"github.com/agentic-docs/docintel/internal/semanticindex"
)

func TestDisabledProvider(t *testing.T) {
	var p Provider = Disabled{}
	out, err := p.Insights(t.Context(), "selection", nil)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if out != nil {
		t.Errorf("expected nil result, got %v", out)
	}
}

func TestNewFromConfigDisabledWhenNotEnabled(t *testing.T) {
	p := NewFromConfig(config.InsightsConfig{Enabled: false, Provider: "openai"})
	if _, ok := p.(Disabled); !ok {
		t.Errorf("expected Disabled provider, got %T", p)
	}
}

func TestNewFromConfigDisabledWithoutAPIKey(t *testing.T) {
	p := NewFromConfig(config.InsightsConfig{Enabled: true, Provider: "openai", APIKeyEnv: "DOCINTEL_TEST_UNSET_KEY"})
	if _, ok := p.(Disabled); !ok {
		t.Errorf("expected Disabled provider, got %T", p)
	}
}

func TestNewFromConfigSelectsProvider(t *testing.T) {
	key := "test-key"
	cases := map[string]any{
		"openai":    &OpenAIProvider{},
		"anthropic": &AnthropicProvider{},
		"google":    &GoogleProvider{},
	}
	for name := range cases {
		cfg := config.InsightsConfig{Enabled: true, Provider: name, APIKey: &key}
		p := NewFromConfig(cfg)
		switch name {
		case "openai":
			if _, ok := p.(*OpenAIProvider); !ok {
				t.Errorf("provider %q: got %T", name, p)
			}
		case "anthropic":
			if _, ok := p.(*AnthropicProvider); !ok {
				t.Errorf("provider %q: got %T", name, p)
			}
		case "google":
			if _, ok := p.(*GoogleProvider); !ok {
				t.Errorf("provider %q: got %T", name, p)
			}
		}
	}
}

func TestBuildPromptIncludesSelectionAndMatches(t *testing.T) {
	matches := []semanticindex.Result{
		{SectionHeading: "Introduction", Page: 1, Snippet: "background material"},
	}
	prompt := buildPrompt("a highlighted passage", matches)
	if !strings.Contains(prompt, "a highlighted passage") {
		t.Error("prompt missing selection text")
	}
	if !strings.Contains(prompt, "Introduction") {
		t.Error("prompt missing match heading")
	}
}

func TestSplitStatementsStripsBulletsAndBlankLines(t *testing.T) {
	raw := "- first point\n\n2. second point\n   \n* third point"
	got := splitStatements(raw)
	want := []string{"first point", "second point", "third point"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("statement %d = %q, want %q", i, got[i], want[i])
		}
	}
}
