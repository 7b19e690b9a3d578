package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	mdwlog "github.com/msto63/lexzig/foundation/core/log"
	"github.com/msto63/lexzig/internal/analyzer/service"
	"github.com/msto63/lexzig/pkg/core/health"
	"github.com/msto63/lexzig/pkg/core/logging"
	"github.com/msto63/lexzig/pkg/core/version"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// Server is the LexZig HTTP API server
type Server struct {
	httpServer *http.Server
	handler    *Handler
	health     *health.Registry
	logger     *logging.Logger
	config     Config
	listener   net.Listener
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int64
	Version        string

	// WSPingInterval is how often idle websocket clients are pinged
	WSPingInterval time.Duration

	CORSEnabled    bool
	AllowedOrigins []string
	AllowedMethods []string

	Logger *mdwlog.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8000,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxRequestSize: 2 << 20,
		Version:        version.Server,
		WSPingInterval: 60 * time.Second,
		CORSEnabled:    true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}
}

// New creates a new HTTP server around the analyzer service
func New(cfg Config, svc *service.Service) (*Server, error) {
	if svc == nil {
		return nil, mdwerror.New("analyzer service is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("server.New")
	}
	defaults := DefaultConfig()
	if cfg.MaxRequestSize <= 0 {
		cfg.MaxRequestSize = defaults.MaxRequestSize
	}
	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.WSPingInterval <= 0 {
		cfg.WSPingInterval = defaults.WSPingInterval
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = defaults.AllowedOrigins
	}
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = defaults.AllowedMethods
	}
	base := cfg.Logger
	if base == nil {
		base = mdwlog.Discard()
	}
	logger := logging.Wrap(base.WithField("component", "http-server"), "http-server")

	healthRegistry := health.NewRegistry("lexzig", cfg.Version)
	healthRegistry.Register(health.ParserCheck(svc.Engine()))
	if svc.HistoryEnabled() {
		healthRegistry.Register(health.PingCheck("history", svc, health.StatusDegraded))
	}

	h := NewHandler(svc, healthRegistry, logger, cfg.MaxRequestSize)
	ws := NewWebSocketHandler(svc, logger, cfg)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/ws", ws)
	mux.Handle("/", h)

	var root http.Handler = mux
	if cfg.CORSEnabled {
		root = corsMiddleware(cfg.AllowedOrigins, cfg.AllowedMethods, root)
	}
	root = requestIDMiddleware(loggingMiddleware(logger, root))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      root,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		httpServer: httpServer,
		handler:    h,
		health:     healthRegistry,
		logger:     logger,
		config:     cfg,
	}, nil
}

// Handler returns the root HTTP handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// requestIDMiddleware reuses the caller's request id or assigns one
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers and answers preflight requests
func corsMiddleware(origins, methods []string, next http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	allowMethods := strings.Join(methods, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", allowMethods)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.WithRequestID(r.Header.Get(RequestIDHeader)).Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController and the websocket upgrader reach
// the underlying writer
func (w *responseWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Hijack implements http.Hijacker for the websocket upgrade
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// Start starts the server
func (s *Server) Start() error {
	s.logger.Info("Starting LexZig HTTP API",
		"host", s.config.Host,
		"port", s.config.Port,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return mdwerror.Wrap(err, "HTTP server failed").
			WithCode(mdwerror.CodeUnavailable).
			WithOperation("server.Start").
			WithDetail("address", s.httpServer.Addr)
	}
	return nil
}

// StartAsync listens immediately and serves in the background
func (s *Server) StartAsync() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return mdwerror.Wrap(err, "failed to listen").
			WithCode(mdwerror.CodeUnavailable).
			WithOperation("server.StartAsync").
			WithDetail("address", s.httpServer.Addr)
	}
	s.listener = listener

	s.logger.Info("Starting LexZig HTTP API (async)", "address", listener.Addr().String())

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping LexZig HTTP API")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
