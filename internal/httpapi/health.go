package httpapi

import (
	"net/http"

	"github.com/agentic-docs/docintel/internal/blobstore"
)

type livezResponse struct {
	Status string `json:"status"`
}

// handleHealthz handles GET /healthz: liveness, the process is up.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, livezResponse{Status: "alive"})
}

type readyzResponse struct {
	Status     string                       `json:"status"`
	Ready      bool                         `json:"ready"`
	IndexRows  int                          `json:"index_rows"`
	Partitions map[blobstore.Partition]bool `json:"partitions"`
}

// handleReadyz handles GET /readyz: readiness, the index is loaded and the
// store partitions are writable.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	health := s.store.HealthCheck()

	ready := true
	for _, ok := range health {
		if !ok {
			ready = false
			break
		}
	}

	status := "healthy"
	if !ready {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, readyzResponse{
		Status:     status,
		Ready:      ready,
		IndexRows:  s.index.Stats().ChunkCount,
		Partitions: health,
	})
}
