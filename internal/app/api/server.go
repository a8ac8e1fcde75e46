// Package api exposes the viewer core over HTTP so a host shell can drive
// it: open documents, run commands, report geometry and fetch surfaces.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bnema/tooldeck/internal/infrastructure/config"
	"github.com/bnema/tooldeck/internal/logging"
	"github.com/bnema/tooldeck/internal/ui/coordinator"
	"github.com/bnema/tooldeck/internal/ui/dispatcher"
	"github.com/bnema/tooldeck/internal/ui/visibility"
)

const (
	maxUploadBytes  = 256 << 20
	shutdownTimeout = 5 * time.Second
	readTimeout     = 30 * time.Second
)

// Deps are the viewer pieces the API drives.
type Deps struct {
	Viewer     *coordinator.Viewer
	Dispatcher *dispatcher.Dispatcher
	Strip      *visibility.StripObserver
	// Gatherer backs /metrics. nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server serves the control API.
type Server struct {
	// ctx outlives requests: render passes started by a request keep running
	// after the response is written.
	ctx    context.Context
	deps   Deps
	cfg    config.ServerConfig
	router chi.Router
}

// NewServer creates the API server. ctx carries the logger and bounds the
// lifetime of work started by requests.
func NewServer(ctx context.Context, deps Deps, cfg config.ServerConfig) *Server {
	s := &Server{
		ctx:  logging.WithComponent(ctx, "api"),
		deps: deps,
		cfg:  cfg,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.ctx))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/documents", s.handleOpenDocuments)
		r.Post("/commands/{command}", s.handleCommand)

		r.Get("/tabs", s.handleListTabs)
		r.Post("/tabs/{tabID}/activate", s.handleActivateTab)
		r.Delete("/tabs/{tabID}", s.handleCloseTab)

		r.Get("/view", s.handleViewState)
		r.Post("/viewport", s.handleViewport)
		r.Post("/pages/{page}/goto", s.handleGoToPage)
		r.Get("/pages/{page}.png", s.handlePageImage)

		r.Get("/thumbnails", s.handleThumbnails)
		r.Post("/thumbnails/viewport", s.handleThumbnailViewport)
		r.Get("/thumbnails/{page}.png", s.handleThumbnailImage)
	})

	if s.cfg.EnableMetrics && s.deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// Router returns the chi router, e.g. for httptest.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	log := logging.FromContext(s.ctx)

	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: readTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("control server shutdown")
		}
	}()

	addr := ln.Addr().String()
	log.Info().Str("addr", addr).Msg("control server listening")
	if ready != nil {
		ready(addr)
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// requestLogger logs each request through zerolog with its chi request id.
func requestLogger(ctx context.Context) func(http.Handler) http.Handler {
	log := logging.FromContext(ctx)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Debug().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("elapsed", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
