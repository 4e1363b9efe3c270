package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgplaytree/pkg/engine"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host         string         // Host to bind to (default "localhost")
	Port         int            // Port to listen on (default 8080)
	ReadTimeout  time.Duration  // Read timeout (default 30s)
	WriteTimeout time.Duration  // Write timeout (default 30s)
	IdleTimeout  time.Duration  // Idle timeout (default 60s)
	MaxBuilds    int            // Max concurrent single roll builds (default 100)
	MaxBatches   int            // Max concurrent all-roll batches (default 4)
	QueueTimeout time.Duration  // Max wait for a worker slot (default 5s)
	CacheSize    int            // Cached trees, 0 disables (default 4096)
	AllowOrigin  string         // CORS origin (default "*")
	Rules        engine.RuleSet // Rules used when a request names none
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		MaxBuilds:    100,
		MaxBatches:   4,
		QueueTimeout: 5 * time.Second,
		CacheSize:    engine.DefaultCacheSize,
		AllowOrigin:  "*",
		Rules:        engine.StandardRules,
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	version  string
}

// NewServer creates a new API server.
func NewServer(config ServerConfig, version string) *Server {
	if config.Rules.Legal == nil {
		config.Rules = engine.StandardRules
	}
	if config.AllowOrigin == "" {
		config.AllowOrigin = "*"
	}

	pool := NewWorkerPool(PoolConfig{
		MaxBuilds:  config.MaxBuilds,
		MaxBatches: config.MaxBatches,
	})

	handlers := NewHandlersWithPool(version, config.Rules, pool, config.QueueTimeout)
	if config.CacheSize > 0 {
		handlers.WithCache(engine.NewTreeCache(uint32(config.CacheSize)))
	}

	return &Server{
		config:   config,
		handlers: handlers,
		pool:     pool,
		version:  version,
	}
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the WebSocket upgrade take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// loggingMiddleware logs all requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handlers.Health)
	mux.HandleFunc("POST /api/moves", s.handlers.Moves)
	mux.HandleFunc("POST /api/legal", s.handlers.Legal)
	mux.HandleFunc("POST /api/summary", s.handlers.Summary)
	mux.HandleFunc("/api/ws", s.handlers.WebSocket)

	return corsMiddleware(s.config.AllowOrigin, loggingMiddleware(mux))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	log.Info().
		Str("version", s.version).
		Str("addr", addr).
		Str("rules", s.config.Rules.Name).
		Msg("starting play tree API server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and handles shutdown signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	errChan := make(chan error, 1)

	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info().Msg("server stopped gracefully")
	return nil
}
