package api

import (
	"log/slog"
	"net/http"

	"github.com/chunkmill/chunkmill/internal/config"
	"github.com/chunkmill/chunkmill/internal/pipeline"
	"github.com/chunkmill/chunkmill/pkg/chunking"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API for the chunking service.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	chunker      *chunking.Chunker
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, chunker *chunking.Chunker, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		chunker:      chunker,
		log:          log,
		cfg:          cfg,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/chunk", s.handleChunk)
		r.Post("/api/chunk/file", s.handleChunkFile)
		r.Post("/api/chunk/batch", s.handleChunkBatch)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
