package httpapi

import (
	"net/http"
	"strconv"

	"github.com/agentic-docs/docintel/internal/docerrors"
)

const maxQueryResults = 5

// handleQuery handles POST /search/query: a form-encoded (text, k) pair.
// k is clamped to maxQueryResults regardless of what the client requests.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeErr(w, docerrors.NewInputError("invalid form body; %v", err))
		return
	}

	text := r.FormValue("text")
	if text == "" {
		writeErr(w, docerrors.NewInputError("text required"))
		return
	}

	k := maxQueryResults
	if raw := r.FormValue("k"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			k = parsed
		}
	}
	if k > maxQueryResults {
		k = maxQueryResults
	}

	matches, err := s.index.Query(r.Context(), text, k, s.embedder)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{Matches: matches})
}
