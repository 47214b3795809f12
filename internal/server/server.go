// Package server exposes the chart pipeline over HTTP: a telemetry file is
// uploaded as multipart form data and the report comes back as JSON, HTML or
// plain text.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/roman-kulish/vehicle-dashboard/internal/pipeline"
)

const (
	requestIDHeader   = "X-Request-ID"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPipeline replaces the pipeline built from the configuration.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(s *Server) {
		if p != nil {
			s.pipeline = p
		}
	}
}

// Server serves the dashboard API.
type Server struct {
	config   Config
	pipeline *pipeline.Pipeline
	metrics  *metrics
	logger   *slog.Logger
	handler  http.Handler
}

// New creates a server with its routes and middleware.
func New(config Config, options ...Option) *Server {
	s := &Server{
		config:  config,
		metrics: newMetrics(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.With(slog.String("component", "server"))

	if s.pipeline == nil {
		s.pipeline = pipeline.New(
			pipeline.WithConcurrency(config.Concurrency),
			pipeline.WithLogger(s.logger),
		)
	}

	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestID)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", s.metrics.handler()).Methods(http.MethodGet)

	router.Handle("/api/kinds", s.metrics.instrument("kinds", s.handleKinds)).Methods(http.MethodGet)
	router.Handle("/api/charts", s.metrics.instrument("charts", s.handleCharts)).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, s.logger, NewAPIError(ErrorCodeNotFound,
			fmt.Sprintf("no route for %s", r.URL.Path), nil, http.StatusNotFound))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, s.logger, NewAPIError(ErrorCodeMethodNotAllowed,
			fmt.Sprintf("method %s not allowed", r.Method), nil, http.StatusMethodNotAllowed))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(router)
}

// requestID tags every request with an ID, taken from the request header or
// generated, and logs it once the request is served.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.logger.Debug("request served",
			slog.String("id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)))
	})
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", s.config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)

	case <-ctx.Done():
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	}
}
