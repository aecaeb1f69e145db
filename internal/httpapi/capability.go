package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/agentic-docs/docintel/internal/docerrors"
)

// handleInsights handles POST /insights, a pass-through to the optional
// insights capability. Returns {"disabled":true} with HTTP 200 when no
// provider is configured.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	fn := s.insightsFunc
	s.mu.RUnlock()

	if fn == nil {
		writeJSON(w, http.StatusOK, disabledResponse{Disabled: true})
		return
	}

	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, docerrors.NewInputError("invalid request body; %v", err))
		return
	}

	insights, err := fn(r.Context(), req.Selection, req.Matches)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, insightsResponse{Insights: insights})
}

// handleAudio handles POST /audio, a pass-through to the optional TTS
// capability. Returns {"disabled":true} with HTTP 200 when no provider is
// configured.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	fn := s.audioFunc
	s.mu.RUnlock()

	if fn == nil {
		writeJSON(w, http.StatusOK, disabledResponse{Disabled: true})
		return
	}

	var req audioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, docerrors.NewInputError("invalid request body; %v", err))
		return
	}

	audio, err := fn(r.Context(), req.Script, req.Voice)
	if err != nil {
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}
