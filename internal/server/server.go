// Package server exposes floor design over HTTP.
//
// Routes:
//
//	POST /v1/floors/solve        solve every beam of a floor in order
//	POST /v1/beams/recalculate   re-solve one beam of a floor without updating state
//	POST /v1/fill                run one filling strategy
//	GET  /v1/constraints         list registered rules and constraints
//	GET  /healthz                liveness and build version
//
// Request and response bodies are JSON. Invalid input answers 400 with a
// body of the form {"code": "INVALID_SPAN", "error": "..."}.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultAddr is the listen address used when none is given.
	DefaultAddr = ":8080"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// Server wraps an http.Server with graceful shutdown.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New returns a server for handler on addr. A nil logger discards output.
func New(addr string, handler http.Handler, logger *log.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
