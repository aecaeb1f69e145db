package httpapi

import "github.com/agentic-docs/docintel/internal/semanticindex"

// HeadingDTO is one outline entry in an /outline response.
type HeadingDTO struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// OutlineResponse is the body of a successful POST /outline.
type OutlineResponse struct {
	DocID   string       `json:"docId"`
	Title   string       `json:"title"`
	Outline []HeadingDTO `json:"outline"`
}

// IngestResponse is the body of a successful POST /search/ingest or
// POST /search/force-reingest.
type IngestResponse struct {
	Ingested int `json:"ingested"`
}

// QueryResponse is the body of a successful POST /search/query.
type QueryResponse struct {
	Matches []semanticindex.Result `json:"matches"`
}

// batchDocIDsRequest is the JSON body accepted by POST /files/delete and
// DELETE /files.
type batchDocIDsRequest struct {
	DocIDs []string `json:"docIds"`
}

// batchDeleteResponse reports the outcome of a batch file deletion.
type batchDeleteResponse struct {
	Deleted []string `json:"deleted"`
	Missing []string `json:"missing"`
}

// insightsRequest is the JSON body accepted by POST /insights.
type insightsRequest struct {
	Selection string                  `json:"selection"`
	Matches   []semanticindex.Result  `json:"matches"`
}

// insightsResponse is returned by POST /insights when a provider is
// configured.
type insightsResponse struct {
	Insights []string `json:"insights"`
}

// audioRequest is the JSON body accepted by POST /audio.
type audioRequest struct {
	Script string `json:"script"`
	Voice  string `json:"voice"`
}

// disabledResponse is returned by /insights and /audio when no capability
// provider is configured.
type disabledResponse struct {
	Disabled bool `json:"disabled"`
}
