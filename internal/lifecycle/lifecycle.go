// Package lifecycle orchestrates whole-system operations that span both
// the blob store and the semantic index: status reporting, legacy-layout
// migration, health probing, and the nuclear reset that wipes both stores
// back to empty.
package lifecycle

import (
	"fmt"

	"github.com/agentic-docs/docintel/internal/blobstore"
	"github.com/agentic-docs/docintel/internal/docerrors"
	"github.com/agentic-docs/docintel/internal/semanticindex"
)

// Controller orchestrates reset, migration, and status across the blob
// store and semantic index, neither of which knows about the other.
type Controller struct {
	store *blobstore.Store
	index *semanticindex.Index
}

// New wires a Controller over an already-open store and index.
func New(store *blobstore.Store, index *semanticindex.Index) *Controller {
	return &Controller{store: store, index: index}
}

// PartitionStatus summarizes one partition's on-disk file count.
type PartitionStatus struct {
	FileCount int `json:"file_count"`
}

// Status is a snapshot of storage and index size, mirroring GET
// /storage/status.
type Status struct {
	Partitions map[blobstore.Partition]PartitionStatus `json:"partitions"`
	TotalFiles int                                     `json:"total_files"`
	Index      semanticindex.Stats                     `json:"index"`
}

// Status reports file counts per partition alongside index size.
func (c *Controller) Status() (Status, error) {
	st := Status{Partitions: make(map[blobstore.Partition]PartitionStatus, len(blobstore.Partitions))}
	for _, p := range blobstore.Partitions {
		entries, err := c.store.List(p)
		if err != nil {
			return Status{}, docerrors.NewPersistenceError("failed to list partition "+string(p), err)
		}
		st.Partitions[p] = PartitionStatus{FileCount: len(entries)}
		st.TotalFiles += len(entries)
	}
	st.Index = c.index.Stats()
	return st, nil
}

// Migrate moves any legacy flat-layout PDFs (predating the
// bulk/fresh/viewer partition split) into their partition directories.
// Returns the number of files migrated.
func (c *Controller) Migrate() (int, error) {
	moved, err := c.store.MigrateLegacy()
	if err != nil {
		return moved, docerrors.NewPersistenceError("migration failed", err)
	}
	return moved, nil
}

// Health probes per-partition writability by creating and deleting a
// sentinel file, delegating to the store's own check.
func (c *Controller) Health() map[blobstore.Partition]bool {
	return c.store.HealthCheck()
}

// ClearResult reports the outcome of ClearAll, including any post-clear
// remainder so callers never silently swallow a partial failure.
type ClearResult struct {
	blobstore.ClearStats
	IndexReset        bool `json:"index_reset"`
	RemainingFiles    int  `json:"remaining_files"`
	RemainingSections int  `json:"remaining_sections"`
}

// ClearAll is the nuclear reset: every partition directory is wiped and
// recreated empty, the semantic index is rebuilt from scratch, and the
// post-state is verified. A non-zero remainder after clearing is reported
// rather than hidden.
func (c *Controller) ClearAll() (ClearResult, error) {
	blobStats := c.store.ClearAll()

	if err := c.index.Reset(); err != nil {
		return ClearResult{}, docerrors.NewPersistenceError("failed to reset index", err)
	}

	result := ClearResult{
		ClearStats: blobStats,
		IndexReset: true,
	}

	for _, p := range blobstore.Partitions {
		entries, err := c.store.List(p)
		if err != nil {
			continue
		}
		result.RemainingFiles += len(entries)
	}
	result.RemainingSections = c.index.Stats().ChunkCount

	if blobStats.Failed > 0 || result.RemainingFiles > 0 || result.RemainingSections > 0 {
		return result, docerrors.NewResetPartialFailureError(blobStats.Removed, blobStats.Failed, nil)
	}
	return result, nil
}

// DebugSnapshot is a read-only operator view of storage and index state,
// mirroring the original's GET /storage/debug route.
type DebugSnapshot struct {
	TotalFiles   int                          `json:"total_pdf_files"`
	Partitions   map[blobstore.Partition]int  `json:"storage_breakdown"`
	IndexRows    int                          `json:"semantic_index_sections"`
	SampleChunks []semanticindex.Chunk        `json:"sample_sections"`
}

// Debug returns a bounded snapshot (first 10 chunks) for operator
// inspection, never the full index contents.
func (c *Controller) Debug() (DebugSnapshot, error) {
	snap := DebugSnapshot{Partitions: make(map[blobstore.Partition]int, len(blobstore.Partitions))}
	for _, p := range blobstore.Partitions {
		entries, err := c.store.List(p)
		if err != nil {
			return DebugSnapshot{}, fmt.Errorf("failed to list partition %s; %w", p, err)
		}
		snap.Partitions[p] = len(entries)
		snap.TotalFiles += len(entries)
	}

	chunks := c.index.Debug()
	snap.IndexRows = len(chunks)
	if len(chunks) > 10 {
		chunks = chunks[:10]
	}
	snap.SampleChunks = chunks
	return snap, nil
}
