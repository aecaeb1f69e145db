package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/agentic-docs/docintel/internal/docerrors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeErr maps err to its status via docerrors.StatusFor and writes it.
func writeErr(w http.ResponseWriter, err error) {
	writeJSONError(w, docerrors.StatusFor(err), err.Error())
}
