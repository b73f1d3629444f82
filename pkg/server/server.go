package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/pageroute/pkg/i18n"
	"github.com/vango-dev/pageroute/pkg/middleware"
	"github.com/vango-dev/pageroute/pkg/router"
)

// Server serves a router over HTTP.
type Server struct {
	router *router.Router
	config *Config
	logger *slog.Logger

	bundle   *i18n.Bundle
	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer

	hub        *Hub
	handler    http.Handler
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the server configuration. Zero fields take defaults.
func WithConfig(config *Config) Option {
	return func(s *Server) {
		c := *config
		s.config = &c
	}
}

// WithLogger sets the server logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithBundle sets the catalogs used to label controller pages.
// Without it labels are the untranslated keys.
func WithBundle(bundle *i18n.Bundle) Option {
	return func(s *Server) {
		s.bundle = bundle
	}
}

// WithMetrics records stream clients in m and serves gatherer on /metrics.
func WithMetrics(m *middleware.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// New creates a server for r.
func New(r *router.Router, opts ...Option) *Server {
	s := &Server{
		router: r,
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.config.applyDefaults()

	s.hub = NewHub(r.Cache(), s.config, s.logger)
	if s.metrics != nil {
		s.hub.onConnect = s.metrics.StreamClientConnected
		s.hub.onDisconnect = s.metrics.StreamClientDisconnected
	}

	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(s.logRequests)

	mux.Get("/routes", s.handleRoutes)
	mux.Post("/navigate", s.handleNavigate)
	mux.Get("/pages", s.handlePages)
	mux.Get("/pages/stream", s.hub.HandleWebSocket)
	mux.Get("/controllers", s.handleControllers)
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// logRequests logs every request once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Hub returns the cache stream hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown disconnects stream clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.hub.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
