// Package server exposes overlap computation over HTTP.
//
// Routes:
//
//	POST /api/overlap   multipart upload (field "file", optional "now")
//	GET  /api/runs      saved runs, newest first (?limit=N)
//	GET  /api/runs/:id  one saved run
//	GET  /healthz       liveness
//
// Errors are JSON objects of the form {"error": {"code": ..., "message": ...}}.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roach88/copair/internal/config"
	"github.com/roach88/copair/internal/overlap"
	"github.com/roach88/copair/internal/store"
)

// shutdownTimeout bounds graceful shutdown once the context is cancelled.
const shutdownTimeout = 5 * time.Second

// Server is the HTTP upload surface.
type Server struct {
	router     *gin.Engine
	cfg        *config.Config
	store      *store.Store
	aggregator *overlap.Aggregator
	clock      overlap.Clock
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore saves every computed report. Without a store, the run routes
// answer 404 STORE_DISABLED.
func WithStore(s *store.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

// WithClock sets the clock used for open bounds when a request has no "now" field.
func WithClock(c overlap.Clock) Option {
	return func(srv *Server) { srv.clock = c }
}

// New builds a server and its routes from cfg.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	aggOpts := append(cfg.AggregatorOptions(), overlap.WithLogger(s.logger))
	if s.clock != nil {
		aggOpts = append(aggOpts, overlap.WithClock(s.clock))
	}
	s.aggregator = overlap.New(aggOpts...)

	s.router = gin.New()
	s.router.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.health)

	api := s.router.Group("/api")
	{
		api.POST("/overlap", s.computeOverlap)
		api.GET("/runs", s.listRuns)
		api.GET("/runs/:id", s.getRun)
	}

	s.router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, CodeNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})
}

// Handler returns the router for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// Returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// requestLogger logs one line per request at info level.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
