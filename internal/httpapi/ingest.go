package httpapi

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/agentic-docs/docintel/internal/blobstore"
	"github.com/agentic-docs/docintel/internal/docerrors"
	"github.com/agentic-docs/docintel/internal/registry"
)

// handleIngest handles POST /search/ingest: a multipart form carrying any
// mix of uploaded files and previously stored docIds, all scoped to a
// single storage_type partition.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, docerrors.NewInputError("invalid multipart form; %v", err))
		return
	}

	partition, err := resolvePartition(r.FormValue("storage_type"))
	if err != nil {
		writeErr(w, err)
		return
	}

	var docs []docToIngest

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			f, ferr := header.Open()
			if ferr != nil {
				writeErr(w, docerrors.NewInputError("failed to open uploaded file %q; %v", header.Filename, ferr))
				return
			}
			data, rerr := io.ReadAll(f)
			f.Close()
			if rerr != nil {
				writeErr(w, docerrors.NewInputError("failed to read uploaded file %q; %v", header.Filename, rerr))
				return
			}
			docID, perr := s.store.Put(data, header.Filename, partition)
			if perr != nil {
				writeErr(w, docerrors.NewPersistenceError("failed to store upload", perr))
				return
			}
			path, gerr := s.store.Get(docID, partition)
			if gerr != nil {
				writeErr(w, gerr)
				return
			}
			docs = append(docs, docToIngest{docID: docID, filename: header.Filename, path: path})
		}
	}

	for _, docID := range r.Form["docIds"] {
		path, gerr := s.store.Get(docID, partition)
		if gerr != nil {
			writeErr(w, gerr)
			return
		}
		if !fileExists(path) {
			writeErr(w, docerrors.NewNotFoundError("docId %q not found in partition %q", docID, partition))
			return
		}
		docs = append(docs, docToIngest{docID: docID, filename: filepath.Base(path), path: path})
	}

	if len(docs) == 0 {
		writeErr(w, docerrors.NewInputError("files or docIds required"))
		return
	}

	ingested := s.ingestAll(r.Context(), docs, partition)
	writeJSON(w, http.StatusOK, IngestResponse{Ingested: ingested})
}

// handleForceReingest handles POST /search/force-reingest: every PDF
// currently present in any partition is re-embedded and re-added.
func (s *Server) handleForceReingest(w http.ResponseWriter, r *http.Request) {
	var docs []docToIngest
	for _, p := range blobstore.Partitions {
		entries, err := s.store.List(p)
		if err != nil {
			writeErr(w, docerrors.NewPersistenceError("failed to list partition "+string(p), err))
			return
		}
		for _, e := range entries {
			docs = append(docs, docToIngest{docID: e.DocID, filename: e.Filename, path: e.Path, partition: e.Partition})
		}
	}

	ingested := s.ingestAll(r.Context(), docs, "")
	writeJSON(w, http.StatusOK, IngestResponse{Ingested: ingested})
}

type docToIngest struct {
	docID     string
	filename  string
	path      string
	partition blobstore.Partition
}

// ingestAll runs the section pipeline and index ingest for each document,
// recording the outcome in the registry when available. A single
// document's extraction failure does not abort the batch.
func (s *Server) ingestAll(ctx context.Context, docs []docToIngest, fallbackPartition blobstore.Partition) int {
	ingested := 0
	for _, d := range docs {
		partition := d.partition
		if partition == "" {
			partition = fallbackPartition
		}

		_, sections, err := sectionsFor(d.path)
		if err != nil {
			s.log.Warn("ingest: extraction failed", "doc_id", d.docID, "error", err)
			s.recordStatus(ctx, d.docID, d.filename, string(partition), 0, registry.StatusFailed)
			continue
		}

		stats, err := s.index.Ingest(ctx, d.docID, d.filename, sections, s.embedder)
		if err != nil {
			s.log.Warn("ingest: index ingest failed", "doc_id", d.docID, "error", err)
			s.recordStatus(ctx, d.docID, d.filename, string(partition), 0, registry.StatusFailed)
			continue
		}

		s.recordStatus(ctx, d.docID, d.filename, string(partition), stats.ChunksIngested, registry.StatusIngested)
		ingested++
	}
	return ingested
}

func (s *Server) recordStatus(ctx context.Context, docID, filename, partition string, chunkCount int, status string) {
	if s.registry == nil {
		return
	}
	doc := registry.Document{
		DocID:      docID,
		Filename:   filename,
		Partition:  partition,
		IngestedAt: time.Now(),
		ChunkCount: chunkCount,
		Status:     status,
	}
	if err := s.registry.Put(ctx, doc); err != nil {
		s.log.Warn("failed to record registry status", "doc_id", docID, "error", err)
	}
}
