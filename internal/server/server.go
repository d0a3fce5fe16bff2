// Package server exposes the bibliometric analysis backend over HTTP:
// the acquisition pipeline, the similarity engine, the concept/frequency
// analyzer and the hierarchical clustering engine, all versioned under
// /api/v1.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bibliometric-api/internal/acquisition"
	"bibliometric-api/internal/config"
	"bibliometric-api/internal/frequency"
	"bibliometric-api/internal/logger"
	"bibliometric-api/internal/similarity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server wires the HTTP router to the domain engines. It holds no request
// state of its own; every engine it depends on is safe for concurrent use
// across handlers, following the documented "injected singletons" guidance.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     config.Server

	pipeline   *acquisition.Pipeline
	similarity *similarity.Registry
	concepts   []frequency.Concept

	log *slog.Logger
}

// New creates a new HTTP server instance wired to the given engines.
func New(pipeline *acquisition.Pipeline, simReg *similarity.Registry, cfg config.Server) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		config:     cfg,
		pipeline:   pipeline,
		similarity: simReg,
		concepts:   frequency.PredefinedConcepts(),
		log:        logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(securityHeaders)

	if s.config.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	if s.config.RateLimit.Enabled {
		s.router.Use(middleware.Throttle(s.config.RateLimit.RequestsPerMinute))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/data", func(r chi.Router) {
			r.Post("/download", s.handleDataDownload)
			r.Get("/status/{jobID}", s.handleDataStatus)
			r.Get("/jobs", s.handleDataJobs)
			r.Get("/unified", s.handleDataUnified)
			r.Get("/duplicates/{jobID}", s.handleDataDuplicates)
			r.Get("/download/{jobID}/{format}", s.handleDataArtifact)
			r.Delete("/cancel/{jobID}", s.handleDataCancel)
			r.Get("/sources", s.handleDataSources)
		})

		r.Route("/similarity", func(r chi.Router) {
			r.Post("/compare", s.handleSimilarityCompare)
			r.Post("/compare-all", s.handleSimilarityCompareAll)
			r.Post("/analyze", s.handleSimilarityAnalyze)
			r.Post("/batch", s.handleSimilarityBatch)
			r.Get("/algorithms", s.handleSimilarityAlgorithms)
		})

		r.Route("/frequency", func(r chi.Router) {
			r.Post("/analyze-concepts", s.handleFrequencyAnalyzeConcepts)
			r.Post("/extract-keywords", s.handleFrequencyExtractKeywords)
			r.Post("/precision-analysis", s.handleFrequencyPrecisionAnalysis)
			r.Post("/full-report", s.handleFrequencyFullReport)
			r.Get("/predefined-concepts", s.handleFrequencyPredefinedConcepts)
		})

		r.Route("/clustering", func(r chi.Router) {
			r.Post("/hierarchical", s.handleClusteringHierarchical)
			r.Post("/compare-methods", s.handleClusteringCompareMethods)
			r.Get("/methods", s.handleClusteringMethods)
		})
	})
}

// Start starts the HTTP server, blocking until it stops.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server",
		"addr", s.httpServer.Addr,
		"read_timeout", s.config.ReadTimeout,
		"write_timeout", s.config.WriteTimeout,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server gracefully")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

// Router returns the chi router instance, useful for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}
