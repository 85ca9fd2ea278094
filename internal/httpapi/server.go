package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pipedeck/internal/catalog"
	"pipedeck/internal/logging"
	"pipedeck/internal/logs"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Deps are the services the handlers use.
type Deps struct {
	Store    *catalog.Store
	Importer *catalog.Importer
	Logger   *slog.Logger
	Now      func() time.Time
	// Logs backs GET /api/logs; the route answers 404 when nil.
	Logs *logs.Reader
	// PlayerLock is the flock file of the player. The active marker only
	// counts while it is held; empty trusts the marker as stored.
	PlayerLock string
}

// Server wraps the HTTP server and its router.
type Server struct {
	bind     string
	logger   *slog.Logger
	handler  http.Handler
	server   *http.Server
	listener net.Listener
}

// New builds the router and the HTTP server bound to bind.
func New(bind string, d Deps) (*Server, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("api bind address required")
	}
	if d.Store == nil {
		return nil, errors.New("api requires a catalog store")
	}
	if d.Importer == nil {
		d.Importer = catalog.NewImporter(d.Store, 0)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	logger := logging.NewComponentLogger(d.Logger, "api")
	h := &handlers{store: d.Store, importer: d.Importer, logs: d.Logs, lockPath: d.PlayerLock, logger: logger, now: d.Now}

	router := newRouter(h, logger)
	return &Server{
		bind:    bind,
		logger:  logger,
		handler: router,
		server: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}, nil
}

// newRouter registers every route on a chi router.
func newRouter(h *handlers, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(accessLog(logger))

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Route("/pipelines", func(r chi.Router) {
			r.Get("/", h.listPipelines)
			r.Post("/", h.createPipeline)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getPipeline)
				r.Put("/", h.updatePipeline)
				r.Delete("/", h.deletePipeline)
				r.Post("/favorite", h.setFavorite)
				r.Post("/touch", h.touchPipeline)
			})
		})
		r.Get("/snapshot", h.exportSnapshot)
		r.Put("/snapshot", h.importSnapshot)
		r.Post("/import", h.importFile)
		r.Get("/active", h.active)
		r.Get("/logs", h.logTail)
	})
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listening address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

// Start listens and serves in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "api server error", "api_serve_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the bind address is free"),
				logging.String(logging.FieldImpact, "HTTP API unavailable"),
			)
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api shutdown incomplete", logging.Error(err))
	}
}
