package http

import (
	"log/slog"
	"net/http"
	"time"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	target := parseTargetMonth(r)
	key := monthKey(target)

	if cached, ok := s.dashboardCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	dash, err := s.ledger.Dashboard(r.Context(), target, time.Now().UTC())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	s.dashboardCache.Set(key, dash)
	writeJSON(w, http.StatusOK, dash)
}
