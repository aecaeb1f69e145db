package cmdutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentic-docs/docintel/internal/config"
)

func TestSetConfigAndConfig(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug"}
	SetConfig(cfg)
	if Config() != cfg {
		t.Error("Config() did not return the value set by SetConfig")
	}
}

func TestLoadAndUpgradeLoggingFromPath(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := LoadAndUpgradeLogging(configFile)
	if err != nil {
		t.Fatalf("LoadAndUpgradeLogging: %v", err)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", loaded.LogLevel)
	}
	if Config() != loaded {
		t.Error("Config() did not reflect the freshly loaded config")
	}
	if Logger() == nil {
		t.Error("Logger() returned nil")
	}
}
