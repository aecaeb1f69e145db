package embeddings

import "fmt"

// Config is the subset of configuration needed to construct a provider.
// Kept independent of internal/config to avoid an import cycle; callers
// adapt their config.EmbeddingsConfig into this shape.
type Config struct {
	Provider   string
	Model      string
	Dimensions int
	APIKey     string
}

// NewFromConfig builds the configured embeddings provider. An empty name
// or "deterministic" selects the deterministic hasher, which is always
// available; an unknown provider name returns an error.
func NewFromConfig(cfg Config) (EmbeddingsProvider, error) {
	switch cfg.Provider {
	case "", "deterministic":
		return NewDeterministicProvider(cfg.Dimensions), nil
	case "openai":
		opts := []OpenAIOption{WithOpenAIAPIKey(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, WithOpenAIModel(cfg.Model))
		}
		return NewOpenAIProvider(opts...), nil
	case "voyage":
		opts := []VoyageOption{WithVoyageAPIKey(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, WithVoyageModel(cfg.Model))
		}
		return NewVoyageProvider(opts...), nil
	case "google":
		opts := []GoogleOption{WithGoogleAPIKey(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, WithGoogleModel(cfg.Model))
		}
		return NewGoogleProvider(opts...), nil
	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", cfg.Provider)
	}
}
