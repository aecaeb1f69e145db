package config

import "os"

// Config is the root configuration structure for the service.
type Config struct {
	LogLevel   string           `yaml:"log_level" mapstructure:"log_level"`
	LogFile    string           `yaml:"log_file" mapstructure:"log_file"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Index      IndexConfig      `yaml:"index" mapstructure:"index"`
	Graph      GraphConfig      `yaml:"graph" mapstructure:"graph"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" mapstructure:"embeddings"`
	TTL        TTLConfig        `yaml:"ttl" mapstructure:"ttl"`
	Insights   InsightsConfig   `yaml:"insights" mapstructure:"insights"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	HTTPPort           int `yaml:"http_port" mapstructure:"http_port"`
	HTTPBind           string `yaml:"http_bind" mapstructure:"http_bind"`
	ShutdownTimeout    int `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"` // seconds
	IngestRateLimitRPM int `yaml:"ingest_rate_limit_rpm" mapstructure:"ingest_rate_limit_rpm"`
}

// StorageConfig holds blob storage and document registry configuration.
type StorageConfig struct {
	BlobRootDir  string `yaml:"blob_root_dir" mapstructure:"blob_root_dir"`
	RegistryPath string `yaml:"registry_path" mapstructure:"registry_path"`
}

// IndexConfig holds the in-memory semantic index's persistence settings.
type IndexConfig struct {
	DataDir    string `yaml:"data_dir" mapstructure:"data_dir"`
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"`
}

// GraphConfig holds FalkorDB outline-graph configuration.
type GraphConfig struct {
	Host           string `yaml:"host" mapstructure:"host"`
	Port           int    `yaml:"port" mapstructure:"port"`
	Name           string `yaml:"name" mapstructure:"name"`
	PasswordEnv    string `yaml:"password_env" mapstructure:"password_env"`
	MaxRetries     int    `yaml:"max_retries" mapstructure:"max_retries"`
	RetryDelayMs   int    `yaml:"retry_delay_ms" mapstructure:"retry_delay_ms"`
	WriteQueueSize int    `yaml:"write_queue_size" mapstructure:"write_queue_size"`
}

// EmbeddingsConfig holds embeddings provider and result-cache configuration.
type EmbeddingsConfig struct {
	Enabled      bool    `yaml:"enabled" mapstructure:"enabled"`
	Provider     string  `yaml:"provider" mapstructure:"provider"`
	Model        string  `yaml:"model" mapstructure:"model"`
	Dimensions   int     `yaml:"dimensions" mapstructure:"dimensions"`
	APIKey       *string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	APIKeyEnv    string  `yaml:"api_key_env" mapstructure:"api_key_env"`
	CacheAddr    string  `yaml:"cache_addr" mapstructure:"cache_addr"`
	CacheTTLDays int     `yaml:"cache_ttl_days" mapstructure:"cache_ttl_days"`
}

// ResolveAPIKey returns the API key from config or falls back to an
// environment variable.
func (c *EmbeddingsConfig) ResolveAPIKey() string {
	if c.APIKey != nil && *c.APIKey != "" {
		return *c.APIKey
	}
	return os.Getenv(c.APIKeyEnv)
}

// TTLConfig holds sweeper scheduling for documents past their retention age.
type TTLConfig struct {
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes" mapstructure:"sweep_interval_minutes"`
	MaxAgeHours          int `yaml:"max_age_hours" mapstructure:"max_age_hours"` // 0 = disabled
}

// InsightsConfig holds the optional insights capability's configuration.
type InsightsConfig struct {
	Enabled   bool    `yaml:"enabled" mapstructure:"enabled"`
	Provider  string  `yaml:"provider" mapstructure:"provider"`
	Model     string  `yaml:"model" mapstructure:"model"`
	APIKey    *string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	APIKeyEnv string  `yaml:"api_key_env" mapstructure:"api_key_env"`
}

// ResolveAPIKey returns the API key from config or falls back to an
// environment variable.
func (c *InsightsConfig) ResolveAPIKey() string {
	if c.APIKey != nil && *c.APIKey != "" {
		return *c.APIKey
	}
	return os.Getenv(c.APIKeyEnv)
}
