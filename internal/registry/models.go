// Package registry provides SQLite-backed bookkeeping of which documents
// have been ingested, into which blob partition, and with what chunk
// count, independent of the in-memory vector index.
package registry

import "time"

// Status values for a document's lifecycle in the registry.
const (
	StatusIngested = "ingested"
	StatusFailed   = "failed"
	StatusRemoved  = "removed"
)

// Document is one row of the registry.
type Document struct {
	DocID      string
	Filename   string
	Partition  string
	IngestedAt time.Time
	ChunkCount int
	Status     string
}
