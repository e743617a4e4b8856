// Package server provides the HTTP API for the recommendation service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/config"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/engine"
)

// Server is the HTTP server for the movierec API.
type Server struct {
	engine *engine.Engine
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(eng *engine.Engine, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		engine: eng,
		config: cfg,
		logger: logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/recommendations", s.handleRecommendations)
	r.Get("/api/v1/movies/popular", s.handlePopular)
	r.Get("/api/v1/movies/featured", s.handleFeatured)
	r.Get("/api/v1/movies/details", s.handleDetails)
	r.Get("/api/v1/languages", s.handleLanguages)
	r.Post("/api/v1/reload", s.handleReload)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
