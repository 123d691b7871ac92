// Package http exposes the ledger as a JSON API: transaction entry and
// mutations, the month dashboard, card management with invoice drill-down,
// and statement parsing.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"financas/internal/cache"
	"financas/internal/core"
	"financas/internal/services"
	"financas/internal/statement"
)

// StatementParser turns raw statement text into transaction drafts.
type StatementParser interface {
	Parse(ctx context.Context, text string) ([]statement.Draft, error)
}

type Server struct {
	http.Server
	ledger      *services.LedgerService
	parser      StatementParser
	rateLimiter *rateLimiter

	// Read-side caches; any mutation purges both.
	dashboardCache *cache.LRUCache[services.Dashboard]
	monthCache     *cache.LRUCache[[]core.Transaction]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
// parser may be nil; statement parsing then answers 503.
func NewServer(addr string, ledger *services.LedgerService, parser StatementParser) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:         ledger,
		parser:         parser,
		rateLimiter:    newRateLimiter(),
		dashboardCache: cache.NewLRUCache[services.Dashboard](100, 5*time.Minute),
		monthCache:     cache.NewLRUCache[[]core.Transaction](200, 5*time.Minute),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.monthCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /transactions", s.withSecurityHeaders(s.handleListTransactions))
	mux.HandleFunc("POST /transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("PUT /transactions/{id}", s.withSecurityHeaders(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.withSecurityHeaders(s.handleDeleteTransaction))
	mux.HandleFunc("PATCH /transactions/{id}/toggle", s.withSecurityHeaders(s.handleToggleStatus))

	mux.HandleFunc("GET /dashboard", s.withSecurityHeaders(s.handleDashboard))

	mux.HandleFunc("GET /cards", s.withSecurityHeaders(s.handleListCards))
	mux.HandleFunc("POST /cards", s.withSecurityHeaders(s.handleCreateCard))
	mux.HandleFunc("PUT /cards/{id}", s.withSecurityHeaders(s.handleUpdateCard))
	mux.HandleFunc("DELETE /cards/{id}", s.withSecurityHeaders(s.handleDeleteCard))
	mux.HandleFunc("GET /cards/{id}/invoice", s.withSecurityHeaders(s.handleCardInvoice))

	mux.HandleFunc("POST /statements/parse", s.withSecurityHeaders(s.handleParseStatement))

	return s
}

// invalidateCaches drops every cached read view. Called after any mutation
// so month views and the dashboard never serve stale aggregates.
func (s *Server) invalidateCaches() {
	s.dashboardCache.Purge()
	s.monthCache.Purge()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Mutations are rate limited per client IP; reads are not.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
