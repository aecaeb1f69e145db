package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/agentic-docs/docintel/internal/docerrors"
)

// handleFileGet handles GET /files/{docId}: serves the stored PDF bytes.
func (s *Server) handleFileGet(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docId")

	path, err := s.store.Get(docID, "")
	if err != nil {
		writeErr(w, err)
		return
	}
	if !fileExists(path) {
		writeErr(w, docerrors.NewNotFoundError("docId %q not found", docID))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=\""+filepath.Base(path)+"\"")
	http.ServeFile(w, r, path)
}

// handleFileDeleteOne handles DELETE /files/{docId}.
func (s *Server) handleFileDeleteOne(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docId")

	removed, err := s.store.Delete(docID, "")
	if err != nil {
		writeErr(w, err)
		return
	}
	if !removed {
		writeErr(w, docerrors.NewNotFoundError("docId %q not found", docID))
		return
	}

	writeJSON(w, http.StatusOK, batchDeleteResponse{Deleted: []string{docID}})
}

// handleFilesDeleteBatch handles POST /files/delete and DELETE /files: a
// JSON body listing docIds to remove.
func (s *Server) handleFilesDeleteBatch(w http.ResponseWriter, r *http.Request) {
	var req batchDocIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, docerrors.NewInputError("invalid request body; %v", err))
		return
	}
	if len(req.DocIDs) == 0 {
		writeErr(w, docerrors.NewInputError("docIds required"))
		return
	}

	resp := batchDeleteResponse{}
	for _, docID := range req.DocIDs {
		removed, err := s.store.Delete(docID, "")
		if err != nil || !removed {
			resp.Missing = append(resp.Missing, docID)
			continue
		}
		resp.Deleted = append(resp.Deleted, docID)
	}

	writeJSON(w, http.StatusOK, resp)
}
