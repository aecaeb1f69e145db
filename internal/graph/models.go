package graph

import "time"

// Node labels for the outline knowledge graph.
const (
	LabelDocument = "Document"
	LabelHeading  = "Heading"
)

// Relationship types for the outline knowledge graph.
const (
	RelContains = "CONTAINS" // Document -> Heading
	RelNext     = "NEXT"     // Heading -> Heading, in outline page order
)

// DocumentNode represents one ingested PDF in the knowledge graph.
type DocumentNode struct {
	DocID      string    `json:"doc_id"`
	Filename   string    `json:"filename"`
	Partition  string    `json:"partition"`
	Title      string    `json:"title"`
	PageCount  int       `json:"page_count"`
	IngestedAt time.Time `json:"ingested_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HeadingNode represents one classified heading extracted from a
// document's outline.
type HeadingNode struct {
	DocID   string `json:"doc_id"`
	Ordinal int    `json:"ordinal"` // position within the document's outline, 1-based
	Level   string `json:"level"`   // "H1".."H4"
	Text    string `json:"text"`
	Page    int    `json:"page"`
}

// QueryResult contains the results of a raw Cypher query.
type QueryResult struct {
	Rows  [][]any
	Stats QueryStats
}

// QueryStats contains statistics about query execution.
type QueryStats struct {
	NodesCreated     int
	NodesDeleted     int
	RelationsCreated int
	RelationsDeleted int
	PropertiesSet    int
	ExecutionTimeMs  float64
}
