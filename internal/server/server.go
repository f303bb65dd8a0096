// Package server exposes the request pipeline and its dashboards over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gzhole/remindshield/internal/audit"
	"github.com/gzhole/remindshield/internal/pipeline"
	"github.com/gzhole/remindshield/internal/taxonomy"
)

const (
	// DefaultMaxBodyBytes caps request bodies. Larger text would be rejected
	// by the length rule anyway.
	DefaultMaxBodyBytes = 16 << 10

	// DefaultAuditLimit matches the dashboard's recent-events view.
	DefaultAuditLimit = 5

	shutdownTimeout = 10 * time.Second
)

type Options struct {
	Logger       *zap.Logger
	Gatherer     prometheus.Gatherer
	MaxBodyBytes int64
	// Now stamps export file names.
	Now func() time.Time
}

type Server struct {
	handler *pipeline.Handler
	catalog *taxonomy.Catalog
	logger  *zap.Logger
	gather  prometheus.Gatherer
	maxBody int64
	now     func() time.Time
}

func New(h *pipeline.Handler, opts Options) *Server {
	s := &Server{
		handler: h,
		catalog: taxonomy.Default(),
		logger:  opts.Logger,
		gather:  opts.Gatherer,
		maxBody: opts.MaxBodyBytes,
		now:     opts.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Router builds the full route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(RequestID)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	if s.gather != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/requests", s.handleRequest)
		r.Get("/audit", s.handleAuditRecent)
		r.Get("/audit/export", s.handleAuditExport)
		r.Delete("/audit", s.handleAuditClear)
		r.Get("/calendar", s.handleCalendar)
		r.Get("/patterns", s.handlePatterns)
	})

	return r
}

// Serve handles connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe binds addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
	return s.Serve(ctx, ln)
}

type requestBody struct {
	Text  string `json:"text"`
	Event string `json:"event,omitempty"`
	Date  string `json:"date,omitempty"`
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var body requestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.logger.Debug("invalid request body",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(body.Text) == "" {
		writeJSON(w, http.StatusOK, pipeline.Outcome{
			Message:  pipeline.EmptyInputMessage,
			Severity: pipeline.SeverityWarning,
		})
		return
	}

	writeJSON(w, http.StatusOK, s.handler.Handle(body.Text, body.Event, body.Date))
}

func (s *Server) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	limit := DefaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	events := s.handler.AuditRecent(limit)
	records := make([]audit.Record, len(events))
	for i, e := range events {
		records[i] = e.Record()
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleAuditExport(w http.ResponseWriter, r *http.Request) {
	name := audit.ExportFileName(s.now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if err := s.handler.Log().WriteJSON(w); err != nil {
		s.logger.Warn("audit export failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err))
	}
}

func (s *Server) handleAuditClear(w http.ResponseWriter, r *http.Request) {
	s.handler.AuditClear()
	s.logger.Info("audit log cleared", zap.String("request_id", GetRequestID(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

type calendarEntry struct {
	Event string `json:"event"`
	Date  string `json:"date"`
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	entries := s.handler.Calendar().Entries()
	out := make([]calendarEntry, len(entries))
	for i, e := range entries {
		out[i] = calendarEntry{Event: e.Event, Date: e.Date}
	}
	writeJSON(w, http.StatusOK, out)
}

type patternView struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`
	OWASP       string `json:"owasp,omitempty"`
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	rules := s.handler.Rules()
	out := make([]patternView, len(rules))
	for i, rule := range rules {
		out[i] = patternView{
			ID:          rule.ID(),
			Category:    rule.Category(),
			Description: rule.Describe(),
			OWASP:       s.catalog.Refs(rule.Category()),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
