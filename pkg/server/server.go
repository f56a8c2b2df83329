package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/tunebar/pkg/metric"
)

const (
	// DefaultHost is the interface the menu service binds to. The native
	// renderer and the content layer run on the same machine.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the default HTTP server port.
	DefaultPort = 9876

	// DefaultReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the maximum duration to wait for active connections
	// to gracefully close during server shutdown.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultMaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values, including the request line.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)

// Server defines the interface for the HTTP server the native menu host and
// the window content layer talk to.
type Server interface {
	// Serve starts the HTTP server and blocks until the context is canceled.
	// Returns nil on successful graceful shutdown.
	Serve(ctx context.Context) error

	// IsRunning returns true if the server is currently accepting connections.
	IsRunning() bool

	// Addr returns the bound address once running, or the configured one.
	Addr() string
}

// server is the internal implementation of the Server interface.
type server struct {
	mux             *http.ServeMux // HTTP request multiplexer
	host            string         // Interface to listen on
	port            int            // Port to listen on
	readTimeout     time.Duration  // Maximum duration for reading requests
	writeTimeout    time.Duration  // Maximum duration for writing responses
	idleTimeout     time.Duration  // Maximum idle time for keep-alive connections
	shutdownTimeout time.Duration  // Grace period for shutdown
	maxHeaderBytes  int            // Maximum header size in bytes
	errLog          *log.Logger    // Optional error logger
	mu              sync.RWMutex   // Protects running state and addr
	running         bool           // Indicates if server is currently running
	addr            string         // Bound address
}

// Option is a functional option for configuring the Server.
type Option func(*server)

// WithHost sets the interface the server listens on.
func WithHost(host string) Option {
	return func(s *server) { s.host = host }
}

// WithPort sets the port number for the HTTP server. Zero picks a free port.
func WithPort(port int) Option {
	return func(s *server) { s.port = port }
}

// WithReadTimeout sets the maximum duration for reading the entire request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *server) { s.readTimeout = d }
}

// WithWriteTimeout sets the maximum duration before timing out writes of the response.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *server) { s.writeTimeout = d }
}

// WithShutdownTimeout sets the maximum duration to wait for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *server) { s.shutdownTimeout = d }
}

// WithHandler registers a custom HTTP handler for the specified pattern.
// Multiple handlers can be registered by calling this option multiple times.
func WithHandler(pattern string, handler http.Handler) Option {
	return func(s *server) {
		s.mux.Handle(pattern, handler)
	}
}

// WithSimpleHealth adds a health check endpoint at /healthz that always returns 200 OK.
func WithSimpleHealth() Option {
	return func(s *server) {
		s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}
}

// WithMetrics serves the registry's metrics at /metrics.
func WithMetrics(reg prometheus.Gatherer) Option {
	return func(s *server) {
		s.mux.Handle("/metrics", metric.GetHandlerForRegistry(reg))
	}
}

// New creates a new HTTP server with the provided options.
//
// Default configuration:
//   - Host: 127.0.0.1
//   - Port: 9876
//   - ReadTimeout: 10s
//   - WriteTimeout: 10s
//   - IdleTimeout: 60s
//   - ShutdownTimeout: 5s
//   - MaxHeaderBytes: 1 MB
func New(opts ...Option) Server {
	s := &server{
		host:            DefaultHost,
		port:            DefaultPort,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		mux:             http.NewServeMux(),
		errLog:          log.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	slog.Info("server initialized",
		"host", s.host,
		"port", s.port,
		"read_timeout", s.readTimeout,
		"write_timeout", s.writeTimeout)

	return s
}

// IsRunning returns true if the server is currently running and accepting connections.
func (s *server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.running
}

func (s *server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.addr != "" {
		return s.addr
	}
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Serve starts the HTTP server and blocks until the context is canceled or an error occurs.
//
// The server uses errgroup to manage two goroutines:
//  1. Server goroutine: Runs the HTTP server
//  2. Shutdown goroutine: Waits for context cancellation and initiates graceful shutdown
//
// http.ErrServerClosed is not considered an error.
func (s *server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:           net.JoinHostPort(s.host, strconv.Itoa(s.port)),
		Handler:        s.mux,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		ErrorLog:       s.errLog,
	}

	// Create listener first so we can set running=true only after socket is bound
	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	slog.Info("starting server", "addr", listener.Addr().String())

	g, gCtx := errgroup.WithContext(ctx)

	// Server goroutine
	g.Go(func() error {
		s.mu.Lock()
		s.running = true
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	// Shutdown goroutine
	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		slog.Info("shutting down server", "grace_period", s.shutdownTimeout)

		shutdownStart := time.Now()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}

		slog.Info("server shutdown complete", "duration", time.Since(shutdownStart))

		return nil
	})

	return g.Wait()
}
