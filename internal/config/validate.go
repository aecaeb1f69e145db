package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

var validEmbeddingsProviders = map[string]bool{
	"deterministic": true,
	"openai":        true,
	"voyage":        true,
	"google":        true,
}

var validInsightsProviders = map[string]bool{
	"openai":    true,
	"anthropic": true,
	"google":    true,
}

// Validate checks the configuration for errors. Returns ValidationErrors
// if validation fails.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		errs = append(errs, ValidationError{"server.http_port", fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Server.HTTPPort)})
	}
	if cfg.Server.HTTPBind == "" {
		errs = append(errs, ValidationError{"server.http_bind", "must not be empty"})
	}
	if cfg.Server.ShutdownTimeout < 1 {
		errs = append(errs, ValidationError{"server.shutdown_timeout", fmt.Sprintf("must be at least 1 second, got %d", cfg.Server.ShutdownTimeout)})
	}
	if cfg.Server.IngestRateLimitRPM < 1 {
		errs = append(errs, ValidationError{"server.ingest_rate_limit_rpm", fmt.Sprintf("must be at least 1, got %d", cfg.Server.IngestRateLimitRPM)})
	}

	if cfg.Storage.BlobRootDir == "" {
		errs = append(errs, ValidationError{"storage.blob_root_dir", "must not be empty"})
	}
	if cfg.Storage.RegistryPath == "" {
		errs = append(errs, ValidationError{"storage.registry_path", "must not be empty"})
	}

	if cfg.Index.DataDir == "" {
		errs = append(errs, ValidationError{"index.data_dir", "must not be empty"})
	}
	if cfg.Index.Dimensions < 1 {
		errs = append(errs, ValidationError{"index.dimensions", fmt.Sprintf("must be at least 1, got %d", cfg.Index.Dimensions)})
	}

	if cfg.Graph.Host == "" {
		errs = append(errs, ValidationError{"graph.host", "must not be empty"})
	}
	if cfg.Graph.Port < 1 || cfg.Graph.Port > 65535 {
		errs = append(errs, ValidationError{"graph.port", fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Graph.Port)})
	}
	if cfg.Graph.Name == "" {
		errs = append(errs, ValidationError{"graph.name", "must not be empty"})
	}
	if cfg.Graph.MaxRetries < 0 {
		errs = append(errs, ValidationError{"graph.max_retries", fmt.Sprintf("must be non-negative, got %d", cfg.Graph.MaxRetries)})
	}
	if cfg.Graph.RetryDelayMs < 0 {
		errs = append(errs, ValidationError{"graph.retry_delay_ms", fmt.Sprintf("must be non-negative, got %d", cfg.Graph.RetryDelayMs)})
	}
	if cfg.Graph.WriteQueueSize < 1 {
		errs = append(errs, ValidationError{"graph.write_queue_size", fmt.Sprintf("must be at least 1, got %d", cfg.Graph.WriteQueueSize)})
	}

	if cfg.Embeddings.Enabled {
		if cfg.Embeddings.Provider == "" {
			errs = append(errs, ValidationError{"embeddings.provider", "must not be empty when embeddings are enabled"})
		} else if !validEmbeddingsProviders[cfg.Embeddings.Provider] {
			errs = append(errs, ValidationError{"embeddings.provider", fmt.Sprintf("must be one of: deterministic, openai, voyage, google; got %q", cfg.Embeddings.Provider)})
		}
		if cfg.Embeddings.Model == "" {
			errs = append(errs, ValidationError{"embeddings.model", "must not be empty when embeddings are enabled"})
		}
		if cfg.Embeddings.Dimensions < 1 {
			errs = append(errs, ValidationError{"embeddings.dimensions", fmt.Sprintf("must be at least 1, got %d", cfg.Embeddings.Dimensions)})
		}
	}

	if cfg.TTL.SweepIntervalMinutes < 1 {
		errs = append(errs, ValidationError{"ttl.sweep_interval_minutes", fmt.Sprintf("must be at least 1, got %d", cfg.TTL.SweepIntervalMinutes)})
	}
	if cfg.TTL.MaxAgeHours < 0 {
		errs = append(errs, ValidationError{"ttl.max_age_hours", fmt.Sprintf("must be non-negative, got %d", cfg.TTL.MaxAgeHours)})
	}

	if cfg.Insights.Enabled {
		if !validInsightsProviders[cfg.Insights.Provider] {
			errs = append(errs, ValidationError{"insights.provider", fmt.Sprintf("must be one of: openai, anthropic, google; got %q", cfg.Insights.Provider)})
		}
		if cfg.Insights.Model == "" {
			errs = append(errs, ValidationError{"insights.model", "must not be empty when insights are enabled"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsValidationError reports whether err is a config validation failure.
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}
