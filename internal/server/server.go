// Package server exposes the journal and its analytics over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/metrics"
	"github.com/rustyeddy/tradejournal/internal/service"
	"github.com/rustyeddy/tradejournal/internal/uploads"
	"github.com/rustyeddy/tradejournal/journal"
)

// Deps are the collaborators the handlers use.
type Deps struct {
	Store     journal.Store
	Service   *service.Service
	Uploads   *uploads.Store
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	StaticDir string
}

type Server struct {
	cfg      config.ServerConfig
	store    journal.Store
	svc      *service.Service
	uploads  *uploads.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	static   string
	validate *tradeValidator
	router   chi.Router
}

func New(cfg config.ServerConfig, d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		cfg:      cfg,
		store:    d.Store,
		svc:      d.Service,
		uploads:  d.Uploads,
		metrics:  d.Metrics,
		logger:   logger.With(slog.String("component", "http")),
		static:   d.StaticDir,
		validate: newTradeValidator(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Get("/images/{filename}", s.serveImage)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", s.listTrades)
			r.Post("/", s.createTrade)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getTrade)
				r.Put("/", s.updateTrade)
				r.Delete("/", s.deleteTrade)
				r.Get("/images", s.listImages)
				r.Post("/images", s.uploadImage)
			})
		})

		r.Get("/statistics", s.statistics)
		r.Get("/advanced-analysis", s.advancedAnalysis)
	})

	if s.static != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.static)))
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// requestLogger logs one line per request and feeds the latency histogram.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			if s.metrics != nil {
				s.metrics.HTTPRequestDuration.
					WithLabelValues(r.Method, route, fmt.Sprint(status)).
					Observe(elapsed.Seconds())
			}

			s.logger.LogAttrs(r.Context(), slog.LevelInfo, "request",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", elapsed),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
