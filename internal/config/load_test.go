package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NoConfigFile_UsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("DOCINTEL_CONFIG_DIR", tmpDir)
	t.Setenv("HOME", tmpDir)

	origDir, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error when no config file exists: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultServerHTTPPort {
		t.Errorf("Server.HTTPPort = %d, want %d", cfg.Server.HTTPPort, DefaultServerHTTPPort)
	}
}

func TestLoad_ConfigInEnvDir_Overrides(t *testing.T) {
	envDir := t.TempDir()
	configPath := filepath.Join(envDir, "config.yaml")
	contents := "server:\n  http_port: 9999\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("DOCINTEL_CONFIG_DIR", envDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Server.HTTPPort != 9999 {
		t.Errorf("Server.HTTPPort = %d, want 9999", cfg.Server.HTTPPort)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("DOCINTEL_CONFIG_DIR", tmpDir)
	t.Setenv("DOCINTEL_SERVER_HTTP_PORT", "8123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Server.HTTPPort != 8123 {
		t.Errorf("Server.HTTPPort = %d, want 8123 (from env override)", cfg.Server.HTTPPort)
	}
}

func TestLoadFromPath_InvalidYAML_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  http_port: [bad"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadFromPath(configPath); err == nil {
		t.Error("LoadFromPath() expected error for invalid YAML, got nil")
	}
}

func TestLoadFromPath_InvalidValue_FailsValidation(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  http_port: 0\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadFromPath(configPath)
	if err == nil {
		t.Fatal("LoadFromPath() expected validation error, got nil")
	}
	if !IsValidationError(err) {
		t.Errorf("expected validation error, got %T: %v", err, err)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cfg := LoadWithDefaults()
	if cfg.Embeddings.Provider != DefaultEmbeddingsProvider {
		t.Errorf("Embeddings.Provider = %q, want %q", cfg.Embeddings.Provider, DefaultEmbeddingsProvider)
	}
}
