// Package server exposes the schema API and rendered diagrams over HTTP.
//
// The server wraps a pipeline.Runner, so its caching behavior is identical
// to the CLI's. Endpoints:
//
//	GET /                         HTML page embedding the diagram
//	GET /api/schema/              full schema JSON
//	GET /api/model/{app}/{model}/ single model record
//	GET /api/diagram.svg          rendered diagram
//
// Schema and diagram requests accept exclude_django and apps query
// parameters. When a snapshot recorder is configured, every fetched schema
// is archived in the background.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/jonasreimer/schemascope/pkg/pipeline"
	"github.com/jonasreimer/schemascope/pkg/snapshot"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server handles schema API and diagram requests.
type Server struct {
	source   string
	runner   *pipeline.Runner
	logger   *log.Logger
	recorder *snapshot.Recorder
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder archives every fetched schema to the recorder.
func WithRecorder(rec *snapshot.Recorder) Option {
	return func(s *Server) { s.recorder = rec }
}

// New creates a server reading schemas from source (a local JSON file or
// an upstream URL). The runner provides caching; if nil, an uncached
// runner is created.
func New(source string, runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		source: source,
		runner: runner,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger))

	r.Get("/", s.handleIndex)
	r.Get("/api/schema/", s.handleSchema)
	r.Get("/api/model/{app}/{model}/", s.handleModel)
	r.Get("/api/diagram.svg", s.handleDiagram)

	return r
}

// ListenAndServe runs the server until the context is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "source", s.source)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
