package app

import (
	"path/filepath"
	"testing"

	"github.com/agentic-docs/docintel/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Storage: config.StorageConfig{
			BlobRootDir:  filepath.Join(dir, "blobs"),
			RegistryPath: filepath.Join(dir, "registry.db"),
		},
		Index: config.IndexConfig{
			DataDir:    filepath.Join(dir, "index"),
			Dimensions: 32,
		},
		Embeddings: config.EmbeddingsConfig{
			Provider: "deterministic",
		},
	}
}

func TestBootstrapWithoutGraph(t *testing.T) {
	cfg := testConfig(t)
	a, err := Bootstrap(t.Context(), cfg, nil)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	defer a.Close(t.Context())

	if a.Store == nil || a.Index == nil || a.Registry == nil || a.Embedder == nil || a.Lifecycle == nil {
		t.Fatal("Bootstrap left a core component nil")
	}
	if a.Graph != nil {
		t.Error("expected nil Graph when Graph.Host is unset")
	}
}
