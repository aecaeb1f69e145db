package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	// Logging defaults.
	DefaultLogLevel = "info"
	DefaultLogFile  = "~/.config/docintel/docintel.log"

	// Server configuration defaults.
	DefaultServerHTTPPort           = 7700
	DefaultServerHTTPBind           = "127.0.0.1"
	DefaultServerShutdownTimeout    = 30 // seconds
	DefaultServerIngestRateLimitRPM = 60

	// Storage defaults.
	DefaultStorageBlobRootDir  = "~/.config/docintel/store"
	DefaultStorageRegistryPath = "~/.config/docintel/registry.db"

	// Index defaults.
	DefaultIndexDataDir    = "~/.config/docintel/index"
	DefaultIndexDimensions = 384

	// Graph configuration defaults.
	DefaultGraphHost           = "localhost"
	DefaultGraphPort           = 6379
	DefaultGraphName           = "docintel"
	DefaultGraphPasswordEnv    = "DOCINTEL_GRAPH_PASSWORD"
	DefaultGraphMaxRetries     = 3
	DefaultGraphRetryDelayMs   = 1000
	DefaultGraphWriteQueueSize = 1000

	// Embeddings provider defaults.
	DefaultEmbeddingsEnabled      = true
	DefaultEmbeddingsProvider     = "deterministic"
	DefaultEmbeddingsModel        = "deterministic-hash-v1"
	DefaultEmbeddingsDimensions   = 384
	DefaultEmbeddingsAPIKeyEnv    = "OPENAI_API_KEY"
	DefaultEmbeddingsCacheTTLDays = 30

	// TTL sweeper defaults.
	DefaultTTLSweepIntervalMinutes = 60
	DefaultTTLMaxAgeHours          = 0 // disabled

	// Insights capability defaults.
	DefaultInsightsEnabled   = false
	DefaultInsightsProvider  = "google"
	DefaultInsightsModel     = "gemini-1.5-flash"
	DefaultInsightsAPIKeyEnv = "GOOGLE_API_KEY"
)

// NewDefaultConfig returns a Config populated with all default values.
func NewDefaultConfig() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		Server: ServerConfig{
			HTTPPort:           DefaultServerHTTPPort,
			HTTPBind:           DefaultServerHTTPBind,
			ShutdownTimeout:    DefaultServerShutdownTimeout,
			IngestRateLimitRPM: DefaultServerIngestRateLimitRPM,
		},
		Storage: StorageConfig{
			BlobRootDir:  DefaultStorageBlobRootDir,
			RegistryPath: DefaultStorageRegistryPath,
		},
		Index: IndexConfig{
			DataDir:    DefaultIndexDataDir,
			Dimensions: DefaultIndexDimensions,
		},
		Graph: GraphConfig{
			Host:           DefaultGraphHost,
			Port:           DefaultGraphPort,
			Name:           DefaultGraphName,
			PasswordEnv:    DefaultGraphPasswordEnv,
			MaxRetries:     DefaultGraphMaxRetries,
			RetryDelayMs:   DefaultGraphRetryDelayMs,
			WriteQueueSize: DefaultGraphWriteQueueSize,
		},
		Embeddings: EmbeddingsConfig{
			Enabled:      DefaultEmbeddingsEnabled,
			Provider:     DefaultEmbeddingsProvider,
			Model:        DefaultEmbeddingsModel,
			Dimensions:   DefaultEmbeddingsDimensions,
			APIKeyEnv:    DefaultEmbeddingsAPIKeyEnv,
			CacheTTLDays: DefaultEmbeddingsCacheTTLDays,
		},
		TTL: TTLConfig{
			SweepIntervalMinutes: DefaultTTLSweepIntervalMinutes,
			MaxAgeHours:          DefaultTTLMaxAgeHours,
		},
		Insights: InsightsConfig{
			Enabled:   DefaultInsightsEnabled,
			Provider:  DefaultInsightsProvider,
			Model:     DefaultInsightsModel,
			APIKeyEnv: DefaultInsightsAPIKeyEnv,
		},
	}
}

// setViperDefaults registers all default configuration values with v.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", DefaultLogFile)

	v.SetDefault("server.http_port", DefaultServerHTTPPort)
	v.SetDefault("server.http_bind", DefaultServerHTTPBind)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)
	v.SetDefault("server.ingest_rate_limit_rpm", DefaultServerIngestRateLimitRPM)

	v.SetDefault("storage.blob_root_dir", DefaultStorageBlobRootDir)
	v.SetDefault("storage.registry_path", DefaultStorageRegistryPath)

	v.SetDefault("index.data_dir", DefaultIndexDataDir)
	v.SetDefault("index.dimensions", DefaultIndexDimensions)

	v.SetDefault("graph.host", DefaultGraphHost)
	v.SetDefault("graph.port", DefaultGraphPort)
	v.SetDefault("graph.name", DefaultGraphName)
	v.SetDefault("graph.password_env", DefaultGraphPasswordEnv)
	v.SetDefault("graph.max_retries", DefaultGraphMaxRetries)
	v.SetDefault("graph.retry_delay_ms", DefaultGraphRetryDelayMs)
	v.SetDefault("graph.write_queue_size", DefaultGraphWriteQueueSize)

	v.SetDefault("embeddings.enabled", DefaultEmbeddingsEnabled)
	v.SetDefault("embeddings.provider", DefaultEmbeddingsProvider)
	v.SetDefault("embeddings.model", DefaultEmbeddingsModel)
	v.SetDefault("embeddings.dimensions", DefaultEmbeddingsDimensions)
	v.SetDefault("embeddings.api_key_env", DefaultEmbeddingsAPIKeyEnv)
	v.SetDefault("embeddings.cache_ttl_days", DefaultEmbeddingsCacheTTLDays)

	v.SetDefault("ttl.sweep_interval_minutes", DefaultTTLSweepIntervalMinutes)
	v.SetDefault("ttl.max_age_hours", DefaultTTLMaxAgeHours)

	v.SetDefault("insights.enabled", DefaultInsightsEnabled)
	v.SetDefault("insights.provider", DefaultInsightsProvider)
	v.SetDefault("insights.model", DefaultInsightsModel)
	v.SetDefault("insights.api_key_env", DefaultInsightsAPIKeyEnv)
}
