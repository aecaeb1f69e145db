package httpapi

import (
	"net/http"

	"github.com/agentic-docs/docintel/internal/docerrors"
)

// handleStorageClear handles POST /storage/clear: nuclear reset of both
// the blob store and the vector index.
func (s *Server) handleStorageClear(w http.ResponseWriter, r *http.Request) {
	result, err := s.lifecycle.ClearAll()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleStorageStatus handles GET /storage/status: file counts per
// partition plus index size.
func (s *Server) handleStorageStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.lifecycle.Status()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleStorageDebug handles GET /storage/debug: a bounded read-only
// snapshot of storage and index state, for operator inspection.
func (s *Server) handleStorageDebug(w http.ResponseWriter, r *http.Request) {
	snap, err := s.lifecycle.Debug()
	if err != nil {
		writeErr(w, docerrors.NewPersistenceError("failed to build debug snapshot", err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleStorageHealth handles GET /storage/health: per-partition
// writability probe.
func (s *Server) handleStorageHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.lifecycle.Health())
}
