// Package http serves taxonomy trees over a small read-mostly JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jobatlas/jobatlas/internal/logging"
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/export"
)

// Atlas is the slice of the engine the HTTP surface needs.
type Atlas interface {
	Industries(ctx context.Context) ([]string, error)
	Tree(ctx context.Context, industry string) (*domain.Tree, error)
	Jobs(ctx context.Context, industry string) ([]*domain.Node, error)
	Delete(ctx context.Context, industry string) error
}

// Server exposes an Atlas over HTTP.
type Server struct {
	atlas   Atlas
	version string
	log     *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewHandler creates the HTTP handler for an atlas.
func NewHandler(atlas Atlas, opts ...Option) http.Handler {
	s := &Server{
		atlas:   atlas,
		version: "dev",
		log:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Get("/info", s.info)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Route("/trees", func(r chi.Router) {
		r.Get("/", s.listTrees)
		r.Route("/{industry}", func(r chi.Router) {
			r.Get("/", s.getTree)
			r.Get("/markdown", s.getMarkdown)
			r.Get("/jobs", s.getJobs)
			r.Delete("/", s.deleteTree)
		})
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "jobatlas-http",
		"version": s.version,
	})
}

func (s *Server) listTrees(w http.ResponseWriter, r *http.Request) {
	industries, err := s.atlas.Industries(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"industries": industries})
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.atlas.Tree(r.Context(), chi.URLParam(r, "industry"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, export.Dict(tree))
}

func (s *Server) getMarkdown(w http.ResponseWriter, r *http.Request) {
	tree, err := s.atlas.Tree(r.Context(), chi.URLParam(r, "industry"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(export.Markdown(tree)))
}

func (s *Server) getJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.atlas.Jobs(r.Context(), chi.URLParam(r, "industry"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	type job struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}
	out := make([]job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, job{ID: j.ID, Name: j.Name, Description: j.Description})
	}
	s.writeJSON(w, map[string]any{"jobs": out})
}

func (s *Server) deleteTree(w http.ResponseWriter, r *http.Request) {
	if err := s.atlas.Delete(r.Context(), chi.URLParam(r, "industry")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTreeNotFound), errors.Is(err, domain.ErrNodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCorruptTree):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
