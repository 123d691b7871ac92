package http

import (
	"log/slog"
	"net/http"
	"strings"
)

type parseStatementRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleParseStatement(w http.ResponseWriter, r *http.Request) {
	if s.parser == nil {
		writeError(w, http.StatusServiceUnavailable, "statement parsing is not configured")
		return
	}

	var req parseStatementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusUnprocessableEntity, "empty statement text")
		return
	}

	drafts, err := s.parser.Parse(r.Context(), req.Text)
	if err != nil {
		slog.ErrorContext(r.Context(), "Statement parse failed", "error", err)
		writeError(w, http.StatusBadGateway, "statement parsing failed")
		return
	}

	writeJSON(w, http.StatusOK, drafts)
}
