// Package server exposes the calculator and per-session row tables over HTTP.
//
// # Routes
//
//	GET    /healthz
//	POST   /api/v1/compute                       stateless compute of posted rows
//	POST   /api/v1/sessions                      create a session (optional seed rows)
//	GET    /api/v1/sessions/{id}                 session rows
//	DELETE /api/v1/sessions/{id}
//	PUT    /api/v1/sessions/{id}/rows            replace the table (JSON or CSV body)
//	POST   /api/v1/sessions/{id}/rows            append one row
//	PATCH  /api/v1/sessions/{id}/rows/{index}    replace one row
//	DELETE /api/v1/sessions/{id}/rows/{index}    remove one row
//	GET    /api/v1/sessions/{id}/result          computed result
//	GET    /api/v1/sessions/{id}/overlay.{fmt}   svg, json, png or pdf
//	GET    /api/v1/sessions/{id}/beam.{fmt}      svg, dot, png or pdf
//	GET    /api/v1/sessions/{id}/report.{fmt}    md or html
//
// A table without a complete row is answered with 200 and
// {"status":"incomplete"}; it is a normal state of an edit in progress.
// Rejected input is 422, an unknown session 404. Every read recomputes from
// the stored rows.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cogbalance/pkg/cog"
	"github.com/matzehuels/cogbalance/pkg/observability"
	"github.com/matzehuels/cogbalance/pkg/pipeline"
	"github.com/matzehuels/cogbalance/pkg/render/overlay"
	"github.com/matzehuels/cogbalance/pkg/session"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Options configures a [Server].
type Options struct {
	Scale        float64
	CameraFactor float64
	Precision    int
	Unit         string
	Geometry     overlay.Geometry
	MaxBodyBytes int64
	Logger       *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	sessions *session.Manager
	runner   *pipeline.Runner
	opts     Options
	logger   *log.Logger
}

// New creates a server over the given session manager.
func New(sessions *session.Manager, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Precision <= 0 {
		opts.Precision = cog.DefaultPrecision
	}
	if opts.Geometry == (overlay.Geometry{}) {
		opts.Geometry = overlay.DefaultGeometry()
	}
	return &Server{
		sessions: sessions,
		runner:   pipeline.NewRunner(opts.Logger),
		opts:     opts,
		logger:   opts.Logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/compute", s.handleCompute)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			r.Put("/rows", s.handleReplaceRows)
			r.Post("/rows", s.handleAppendRow)
			r.Patch("/rows/{index}", s.handleUpdateRow)
			r.Delete("/rows/{index}", s.handleDeleteRow)

			r.Get("/result", s.handleResult)
			r.Get("/overlay.{format}", s.handleRender("overlay"))
			r.Get("/beam.{format}", s.handleRender("beam"))
			r.Get("/report.{format}", s.handleReport)
		})
	})

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		duration := time.Since(start)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", middleware.GetReqID(r.Context()))
		observability.HTTP().OnResponse(r.Context(), r.Method, route, ww.Status(), duration)
	})
}

func (s *Server) pipelineOptions() pipeline.Options {
	g := s.opts.Geometry
	return pipeline.Options{
		Scale:        s.opts.Scale,
		CameraFactor: s.opts.CameraFactor,
		Precision:    s.opts.Precision,
		Unit:         s.opts.Unit,
		Geometry:     &g,
	}
}
