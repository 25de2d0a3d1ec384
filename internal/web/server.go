// ABOUTME: HTTP server for the blood-pressure API.
// ABOUTME: Wires chi routes and middleware over a reading store.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/harperreed/bp/internal/storage"
	"go.uber.org/zap"
)

// Server is the HTTP server for the reading API.
type Server struct {
	store          storage.Repository
	logger         *zap.Logger
	router         *chi.Mux
	server         *http.Server
	requestTimeout time.Duration
	now            func() time.Time
}

// NewServer creates a Server over store. A zero requestTimeout disables the
// per-request deadline.
func NewServer(store storage.Repository, logger *zap.Logger, requestTimeout time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:          store,
		logger:         logger,
		router:         chi.NewRouter(),
		requestTimeout: requestTimeout,
		now:            time.Now,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	if s.requestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.requestTimeout))
	}
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/readings", s.handleCreateReading)
		r.Get("/readings", s.handleListReadings)
		r.Get("/readings/{id}", s.handleGetReading)
		r.Delete("/readings/{id}", s.handleDeleteReading)

		r.Get("/stats", s.handleStats)
		r.Get("/export", s.handleExport)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
