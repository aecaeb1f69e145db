// Package ingest implements the ingest command, which sections and embeds
// one PDF directly against the core components, without a running server.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-docs/docintel/internal/app"
	"github.com/agentic-docs/docintel/internal/blobstore"
	"github.com/agentic-docs/docintel/internal/cmdutil"
	"github.com/agentic-docs/docintel/internal/docerrors"
	"github.com/agentic-docs/docintel/internal/pdf/font"
	"github.com/agentic-docs/docintel/internal/pdf/outline"
	"github.com/agentic-docs/docintel/internal/pdf/section"
	"github.com/agentic-docs/docintel/internal/pdf/validate"
	"github.com/agentic-docs/docintel/internal/registry"
)

var ingestPartition string

// IngestCmd sections, embeds, and indexes a PDF from a local path.
var IngestCmd = &cobra.Command{
	Use:   "ingest <path>",
	Short: "Ingest a PDF from disk",
	Long: "Ingest a PDF from disk.\n\n" +
		"Stores the file in the blob store, extracts its outline and sections, embeds " +
		"each section, and adds the resulting chunks to the semantic index. Equivalent " +
		"to uploading the file through POST /search/ingest.",
	Example: `  # Ingest a single PDF into the bulk partition
  docintel ingest ./reports/q3.pdf

  # Ingest into a specific partition
  docintel ingest ./reports/q3.pdf --partition fresh`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	IngestCmd.Flags().StringVar(&ingestPartition, "partition", "bulk", "Storage partition: bulk, fresh, or viewer")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path, err := cmdutil.ResolvePath(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path; %w", err)
	}
	partition := blobstore.Partition(ingestPartition)

	cfg := cmdutil.Config()
	logger := cmdutil.Logger()
	ctx := context.Background()

	a, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize components; %w", err)
	}
	defer a.Close(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s; %w", path, err)
	}
	if _, err := validate.PDF(data); err != nil {
		return fmt.Errorf("%s is not a valid PDF; %w", path, err)
	}

	filename := filepath.Base(path)
	docID, err := a.Store.Put(data, filename, partition)
	if err != nil {
		return fmt.Errorf("failed to store %s; %w", path, err)
	}

	storedPath, err := a.Store.Get(docID, partition)
	if err != nil {
		return err
	}

	analysis, err := font.Analyze(storedPath)
	if err != nil {
		return docerrors.NewExtractionError(docID, "font analysis failed", err)
	}
	ol := outline.Extract(analysis)
	sections := section.Build(analysis, ol)

	stats, err := a.Index.Ingest(ctx, docID, filename, sections, a.Embedder)
	if err != nil {
		return fmt.Errorf("failed to index %s; %w", path, err)
	}

	if a.Registry != nil {
		doc := registry.Document{
			DocID:      docID,
			Filename:   filename,
			Partition:  string(partition),
			IngestedAt: time.Now(),
			ChunkCount: stats.ChunksIngested,
			Status:     registry.StatusIngested,
		}
		if err := a.Registry.Put(ctx, doc); err != nil {
			logger.Warn("failed to record registry status", "doc_id", docID, "error", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s: doc_id=%s headings=%d chunks=%d\n",
		path, docID, len(ol.Headings), stats.ChunksIngested)
	return nil
}
