// Package server exposes the pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz                       liveness and build info
//	GET  /v1/fannkuch/{n}               compute; query: chunks, workers, refresh
//	POST /v1/fannkuch                   compute; JSON body {"n", "chunks", "workers", "refresh"}
//	GET  /v1/runs                       recent runs, newest first; query: limit
//	GET  /v1/runs/{id}                  one run
//	GET  /v1/trace/{n}/{index}          flip trace; query: format=json|dot|svg
//
// Errors are JSON objects {"code": "...", "message": "..."} whose HTTP
// status follows the error code (see [pkgerrors.HTTPStatus]). Sizes outside
// [0, 12] are answered with 200 and the sentinel pair (-1, -1).
//
// Every response carries an X-Request-ID header. Request logging and the
// registered [observability.HTTPHooks] see the matched route pattern rather
// than the raw path.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pfannkuchen/pkg/pipeline"
	"github.com/matzehuels/pfannkuchen/pkg/runs"
)

// DefaultTimeout bounds a single request, computation included.
const DefaultTimeout = 2 * time.Minute

// Server serves the HTTP API.
type Server struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// New creates a server around runner. A nil logger uses log.Default.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Logger: logger, Timeout: DefaultTimeout}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/fannkuch/{n}", s.handleComputeGet)
		r.Post("/fannkuch", s.handleComputePost)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/trace/{n}/{index}", s.handleTrace)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed"})
	})
	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) store() runs.Store {
	if s.Runner == nil || s.Runner.Store == nil {
		return runs.NullStore{}
	}
	return s.Runner.Store
}
