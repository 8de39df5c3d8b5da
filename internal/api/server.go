// Package api implements the Flowmotion HTTP API.
//
// The server exposes the scene pipeline over JSON endpoints:
//
//	GET  /healthz                       liveness probe
//	POST /v1/eval                       full pipeline on an inline scene
//	POST /v1/layout                     geometry only for an inline scene
//	POST /v1/scenes                     store a scene
//	GET  /v1/scenes                     list stored scenes
//	GET  /v1/scenes/{id}                fetch a stored scene
//	PUT  /v1/scenes/{id}                replace a stored scene
//	DELETE /v1/scenes/{id}              delete a stored scene
//	GET  /v1/scenes/{id}/layout         geometry for a stored scene
//	GET  /v1/scenes/{id}/frames/{frame} animation state for a stored scene
//
// All pipeline endpoints share one Runner, so resolved layouts and
// evaluated frames are served from cache when the scene hash matches.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flowmotion/flowmotion/pkg/pipeline"
	"github.com/flowmotion/flowmotion/pkg/store"
)

// Config holds server dependencies and listen options.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Runner executes the scene pipeline. Required.
	Runner *pipeline.Runner

	// Store persists scenes. Required for the /v1/scenes endpoints.
	Store store.Store

	// Logger receives request and lifecycle logs. Defaults to log.Default().
	Logger *log.Logger

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Server is the Flowmotion HTTP API server.
type Server struct {
	cfg    Config
	logger *log.Logger
	http   *http.Server
}

// NewServer creates a server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("api: Runner is required")
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{cfg: cfg, logger: cfg.Logger}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Router builds the chi route tree. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/eval", s.handleEval)
		r.Post("/layout", s.handleLayout)

		r.Route("/scenes", func(r chi.Router) {
			r.Post("/", s.handleSceneCreate)
			r.Get("/", s.handleSceneList)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleSceneGet)
				r.Put("/", s.handleSceneUpdate)
				r.Delete("/", s.handleSceneDelete)
				r.Get("/layout", s.handleSceneLayout)
				r.Get("/frames/{frame}", s.handleSceneFrame)
			})
		})
	})

	return r
}

// Start runs the server until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", s.cfg.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestLogger logs one line per request with method, path, and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
