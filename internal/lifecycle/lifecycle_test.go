package lifecycle

import (
	"context"
	"testing"

	"github.com/agentic-docs/docintel/internal/blobstore"
	"github.com/agentic-docs/docintel/internal/embeddings"
	"github.com/agentic-docs/docintel/internal/semanticindex"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	store, err := blobstore.New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("blobstore.New: %v", err)
	}
	index, err := semanticindex.New(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("semanticindex.New: %v", err)
	}
	return New(store, index)
}

func TestStatus_EmptyStore(t *testing.T) {
	c := newTestController(t)
	status, err := c.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", status.TotalFiles)
	}
	if len(status.Partitions) != len(blobstore.Partitions) {
		t.Errorf("got %d partitions, want %d", len(status.Partitions), len(blobstore.Partitions))
	}
}

func TestHealth_AllPartitionsWritable(t *testing.T) {
	c := newTestController(t)
	health := c.Health()
	for _, p := range blobstore.Partitions {
		if !health[p] {
			t.Errorf("partition %s reported unhealthy", p)
		}
	}
}

func TestClearAll_RemovesFilesAndResetsIndex(t *testing.T) {
	c := newTestController(t)

	data := []byte("dummy pdf bytes")
	if _, err := c.store.Put(data, "a.pdf", blobstore.PartitionFresh); err != nil {
		t.Fatalf("Put: %v", err)
	}

	embedder := embeddings.NewDeterministicProvider(8)
	if _, err := c.index.Ingest(context.Background(), "doc1", "a.pdf", nil, embedder); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	result, err := c.ClearAll()
	if err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if !result.IndexReset {
		t.Error("expected IndexReset=true")
	}
	if result.RemainingFiles != 0 {
		t.Errorf("RemainingFiles = %d, want 0", result.RemainingFiles)
	}
	if result.RemainingSections != 0 {
		t.Errorf("RemainingSections = %d, want 0", result.RemainingSections)
	}

	status, err := c.Status()
	if err != nil {
		t.Fatalf("Status after clear: %v", err)
	}
	if status.TotalFiles != 0 {
		t.Errorf("TotalFiles after clear = %d, want 0", status.TotalFiles)
	}
}

func TestDebug_BoundsSampleToTen(t *testing.T) {
	c := newTestController(t)
	snap, err := c.Debug()
	if err != nil {
		t.Fatalf("Debug: %v", err)
	}
	if len(snap.SampleChunks) > 10 {
		t.Errorf("SampleChunks len = %d, want at most 10", len(snap.SampleChunks))
	}
}

func TestMigrate_NoLegacyFiles(t *testing.T) {
	c := newTestController(t)
	moved, err := c.Migrate()
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if moved != 0 {
		t.Errorf("moved = %d, want 0", moved)
	}
}
