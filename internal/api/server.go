// Package api serves semtag checks over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/semtag"
	"github.com/tsawler/semtag/config"
)

// Server is the HTTP API server for semtag.
type Server struct {
	router  chi.Router
	checker *semtag.Checker
	log     *slog.Logger
	cfg     config.ServerConfig
}

// NewServer creates and configures the HTTP server. The checker is shared
// by all requests.
func NewServer(checker *semtag.Checker, log *slog.Logger, cfg config.ServerConfig) *Server {
	s := &Server{
		checker: checker,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
