// Package server serves the call surface over HTTP.
//
// The preview API lets a browser or test harness ask for the layout of one
// call state, play a whole scenario, or fetch the control state machines:
//
//	GET  /healthz     liveness and build version
//	POST /v1/layout   JSON call state → frame (json or svg)
//	POST /v1/play     scenario TOML → rendered run (json, svg, png, pdf)
//	GET  /v1/fsm      press and morph machines (dot or svg)
//
// Every response carries an X-Request-ID header. Requests are logged through
// charm log and reported to [observability.HTTP].
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/callsurface/pkg/pipeline"
)

// Limits applied to every request.
const (
	MaxBodyBytes   = 1 << 20
	RequestTimeout = 30 * time.Second
	shutdownGrace  = 5 * time.Second
)

// Server is the preview HTTP server.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New creates a server around runner. defaults seeds the options of every
// request; request fields override it.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, defaults: defaults, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/play", s.handlePlay)
		r.Get("/fsm", s.handleFSM)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// options copies the defaults so per-request edits never leak.
func (s *Server) options() pipeline.Options {
	opts := s.defaults
	opts.Formats = nil
	opts.Frame = nil
	if s.defaults.BottomInset != nil {
		inset := *s.defaults.BottomInset
		opts.BottomInset = &inset
	}
	return opts
}
