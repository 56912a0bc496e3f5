// Package api exposes the HTTP interface for the scanner service.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/editalradar/editalradar/internal/metrics"
	"github.com/editalradar/editalradar/internal/opportunity"
)

// Scanner runs one full discovery pass over all configured sources.
type Scanner interface {
	Run(ctx context.Context) (opportunity.ScanResult, error)
}

// Server wires HTTP handlers to the aggregator.
type Server struct {
	router  chi.Router
	scanner Scanner
	sources []opportunity.SourceProfile
	logger  *zap.Logger

	mu       sync.RWMutex
	running  bool
	last     *opportunity.ScanResult
	scanWait time.Duration
}

// NewServer constructs a Server with middleware and routes.
func NewServer(scanner Scanner, sources []opportunity.SourceProfile, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	s := &Server{
		scanner:  scanner,
		sources:  sources,
		logger:   logger,
		scanWait: 5 * time.Minute,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/scans", s.triggerScan)
		r.Get("/scans/latest", s.latestScan)
		r.Get("/sources", s.listSources)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	if s.scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "scanner not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// triggerScan runs a full scan synchronously. Only one scan runs at a
// time; overlapping requests get 409 so sources are not hammered.
func (s *Server) triggerScan(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "scanner not configured")
		return
	}
	if !s.tryAcquire() {
		writeError(w, http.StatusConflict, "scan already in progress")
		return
	}
	defer s.release()

	ctx, cancel := context.WithTimeout(r.Context(), s.scanWait)
	defer cancel()

	result, err := s.scanner.Run(ctx)
	if err != nil {
		s.logger.Error("scan run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	s.last = &result
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) latestScan(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last == nil {
		writeError(w, http.StatusNotFound, "no scan has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, *last)
}

func (s *Server) listSources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sources": s.sources})
}

func (s *Server) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Server) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := rw.ResponseWriter.(http.Hijacker); ok {
		conn, buf, err := h.Hijack()
		if err != nil {
			return nil, nil, fmt.Errorf("hijack connection: %w", err)
		}
		return conn, buf, nil
	}
	return nil, nil, errors.New("hijacker not supported")
}

type requestIDKey struct{}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
