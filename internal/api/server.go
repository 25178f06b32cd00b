package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jobb/internal/handleliste"
	"github.com/mesh-intelligence/jobb/internal/metrics"
	"github.com/mesh-intelligence/jobb/pkg/types"
)

// Defaults applied by NewServer to zero Config fields.
const (
	DefaultListen          = ":8000"
	DefaultMaxUploadBytes  = 10 << 20
	DefaultMaxBodyBytes    = 1 << 20
	DefaultShutdownTimeout = 30 * time.Second
)

// Config holds the server settings.
type Config struct {
	Listen            string
	Brand             types.Brand
	StrictTransitions bool
	// PDFRoot, when set, confines /pdf/read to files beneath it.
	PDFRoot         string
	MaxUploadBytes  int64
	// MaxBodyBytes bounds JSON request bodies.
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// Server is the jobb HTTP API.
type Server struct {
	cfg       Config
	registry  types.FittingRegistry
	generator *handleliste.Generator
	metrics   *metrics.Registry
	logger    *zap.Logger
	validate  *validator.Validate
	handler   http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics registry. The default is a fresh registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewServer builds the routes and middleware over an attached registry.
func NewServer(cfg Config, registry types.FittingRegistry, opts ...Option) *Server {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.Brand == "" {
		cfg.Brand = types.DefaultBrand
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		cfg:       cfg,
		registry:  registry,
		generator: handleliste.New(handleliste.WithStrictTransitions(cfg.StrictTransitions)),
		logger:    zap.NewNop(),
		validate:  newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRegistry()
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /ping", s.handlePing)
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Handleliste
	mux.HandleFunc("POST /pid/handleliste", s.handleHandleliste)

	// Fittings
	mux.HandleFunc("GET /fittings", s.handleListFittings)
	mux.HandleFunc("GET /fittings/{code}", s.handleGetFitting)
	mux.HandleFunc("POST /fittings", s.handleCreateFitting)
	mux.HandleFunc("POST /fittings/{$}", s.handleCreateFitting)

	// PDF
	mux.HandleFunc("GET /pdf/read", s.handleReadPDF)
	mux.HandleFunc("POST /pdf/extract", s.handleExtractPDF)

	var h http.Handler = mux
	h = s.panicRecoveryMiddleware(h)
	h = s.metricsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.requestIDMiddleware(h)
	return h
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// Run listens on the configured address and serves until ctx is cancelled
// or the process receives SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Listen, err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done. In-flight requests get
// up to the shutdown timeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := s.httpServer()
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("initiating graceful shutdown", zap.Duration("timeout", s.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	s.logger.Info("server shutdown complete")
	return nil
}
