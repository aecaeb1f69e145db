package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and returns the typed configuration. It searches for
// configuration files in priority order:
//  1. Directory specified by DOCINTEL_CONFIG_DIR
//  2. ~/.config/docintel/
//  3. Current working directory (.)
//
// If no config file is found, defaults alone are used.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DOCINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setViperDefaults(v)

	if envPath := os.Getenv("DOCINTEL_CONFIG_DIR"); envPath != "" {
		v.AddConfigPath(envPath)
	}
	if home := os.Getenv("HOME"); home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", "docintel"))
	}
	v.AddConfigPath(".")

	err := v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return unmarshalConfig(v)
		}
		return nil, fmt.Errorf("failed to read config; %w", err)
	}

	return unmarshalConfig(v)
}

// LoadFromPath reads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DOCINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setViperDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config from %s; %w", path, err)
	}

	return unmarshalConfig(v)
}

// LoadWithDefaults returns configuration using defaults only, for contexts
// where a config file is not required.
func LoadWithDefaults() *Config {
	cfg := NewDefaultConfig()
	expandConfigPaths(&cfg)
	return &cfg
}

func unmarshalConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config; %w", err)
	}
	expandConfigPaths(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandConfigPaths expands leading "~" in filesystem path fields.
func expandConfigPaths(cfg *Config) {
	cfg.LogFile = expandHome(cfg.LogFile)
	cfg.Storage.BlobRootDir = expandHome(cfg.Storage.BlobRootDir)
	cfg.Storage.RegistryPath = expandHome(cfg.Storage.RegistryPath)
	cfg.Index.DataDir = expandHome(cfg.Index.DataDir)
}
