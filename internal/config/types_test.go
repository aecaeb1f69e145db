package config

import "testing"

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.LogFile != DefaultLogFile {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, DefaultLogFile)
	}

	if cfg.Server.HTTPPort != DefaultServerHTTPPort {
		t.Errorf("Server.HTTPPort = %d, want %d", cfg.Server.HTTPPort, DefaultServerHTTPPort)
	}
	if cfg.Server.HTTPBind != DefaultServerHTTPBind {
		t.Errorf("Server.HTTPBind = %q, want %q", cfg.Server.HTTPBind, DefaultServerHTTPBind)
	}
	if cfg.Server.ShutdownTimeout != DefaultServerShutdownTimeout {
		t.Errorf("Server.ShutdownTimeout = %d, want %d", cfg.Server.ShutdownTimeout, DefaultServerShutdownTimeout)
	}
	if cfg.Server.IngestRateLimitRPM != DefaultServerIngestRateLimitRPM {
		t.Errorf("Server.IngestRateLimitRPM = %d, want %d", cfg.Server.IngestRateLimitRPM, DefaultServerIngestRateLimitRPM)
	}

	if cfg.Storage.BlobRootDir != DefaultStorageBlobRootDir {
		t.Errorf("Storage.BlobRootDir = %q, want %q", cfg.Storage.BlobRootDir, DefaultStorageBlobRootDir)
	}
	if cfg.Storage.RegistryPath != DefaultStorageRegistryPath {
		t.Errorf("Storage.RegistryPath = %q, want %q", cfg.Storage.RegistryPath, DefaultStorageRegistryPath)
	}

	if cfg.Index.DataDir != DefaultIndexDataDir {
		t.Errorf("Index.DataDir = %q, want %q", cfg.Index.DataDir, DefaultIndexDataDir)
	}
	if cfg.Index.Dimensions != DefaultIndexDimensions {
		t.Errorf("Index.Dimensions = %d, want %d", cfg.Index.Dimensions, DefaultIndexDimensions)
	}

	if cfg.Graph.Host != DefaultGraphHost {
		t.Errorf("Graph.Host = %q, want %q", cfg.Graph.Host, DefaultGraphHost)
	}
	if cfg.Graph.Port != DefaultGraphPort {
		t.Errorf("Graph.Port = %d, want %d", cfg.Graph.Port, DefaultGraphPort)
	}
	if cfg.Graph.WriteQueueSize != DefaultGraphWriteQueueSize {
		t.Errorf("Graph.WriteQueueSize = %d, want %d", cfg.Graph.WriteQueueSize, DefaultGraphWriteQueueSize)
	}

	if cfg.Embeddings.Provider != DefaultEmbeddingsProvider {
		t.Errorf("Embeddings.Provider = %q, want %q", cfg.Embeddings.Provider, DefaultEmbeddingsProvider)
	}
	if cfg.Embeddings.Dimensions != DefaultEmbeddingsDimensions {
		t.Errorf("Embeddings.Dimensions = %d, want %d", cfg.Embeddings.Dimensions, DefaultEmbeddingsDimensions)
	}
	if cfg.Embeddings.APIKey != nil {
		t.Errorf("Embeddings.APIKey = %v, want nil", cfg.Embeddings.APIKey)
	}

	if cfg.TTL.SweepIntervalMinutes != DefaultTTLSweepIntervalMinutes {
		t.Errorf("TTL.SweepIntervalMinutes = %d, want %d", cfg.TTL.SweepIntervalMinutes, DefaultTTLSweepIntervalMinutes)
	}
	if cfg.TTL.MaxAgeHours != DefaultTTLMaxAgeHours {
		t.Errorf("TTL.MaxAgeHours = %d, want %d", cfg.TTL.MaxAgeHours, DefaultTTLMaxAgeHours)
	}

	if cfg.Insights.Enabled != DefaultInsightsEnabled {
		t.Errorf("Insights.Enabled = %v, want %v", cfg.Insights.Enabled, DefaultInsightsEnabled)
	}
	if cfg.Insights.Provider != DefaultInsightsProvider {
		t.Errorf("Insights.Provider = %q, want %q", cfg.Insights.Provider, DefaultInsightsProvider)
	}
}

func TestEmbeddingsConfig_ResolveAPIKey_PrefersExplicit(t *testing.T) {
	key := "explicit-key"
	c := EmbeddingsConfig{APIKey: &key, APIKeyEnv: "SOME_ENV_VAR_NOT_SET"}
	if got := c.ResolveAPIKey(); got != "explicit-key" {
		t.Errorf("ResolveAPIKey() = %q, want %q", got, "explicit-key")
	}
}

func TestEmbeddingsConfig_ResolveAPIKey_FallsBackToEnv(t *testing.T) {
	t.Setenv("DOCINTEL_TEST_EMBEDDINGS_KEY", "env-key")
	c := EmbeddingsConfig{APIKeyEnv: "DOCINTEL_TEST_EMBEDDINGS_KEY"}
	if got := c.ResolveAPIKey(); got != "env-key" {
		t.Errorf("ResolveAPIKey() = %q, want %q", got, "env-key")
	}
}

func TestInsightsConfig_ResolveAPIKey_FallsBackToEnv(t *testing.T) {
	t.Setenv("DOCINTEL_TEST_INSIGHTS_KEY", "env-key")
	c := InsightsConfig{APIKeyEnv: "DOCINTEL_TEST_INSIGHTS_KEY"}
	if got := c.ResolveAPIKey(); got != "env-key" {
		t.Errorf("ResolveAPIKey() = %q, want %q", got, "env-key")
	}
}
