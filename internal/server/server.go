// Package server exposes the analytics engine over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cognicore/trendops/internal/governance"
	"github.com/cognicore/trendops/internal/llm"
	"github.com/cognicore/trendops/internal/youtube"
	"github.com/cognicore/trendops/pkg/trendops"
	"github.com/cognicore/trendops/pkg/trendops/report"
	"github.com/cognicore/trendops/pkg/trendops/store"
)

// Fetcher acquires trending items.
type Fetcher interface {
	FetchTrending(ctx context.Context, q youtube.Query) ([]trendops.Item, error)
}

// Briefer writes an optional intelligence briefing.
type Briefer interface {
	IntelligenceReport(ctx context.Context, rep trendops.Report, region string) (*llm.Intelligence, error)
}

// Limits bound /analyze requests.
type Limits struct {
	DefaultMaxResults    int
	MaxResultsPerRequest int
}

// Deps are the collaborators a Server needs. Fetcher and Briefer may be
// nil; Store, Tracker and Engine may not.
type Deps struct {
	Engine   *trendops.Engine
	Builder  *report.Builder
	Store    store.Store
	Fetcher  Fetcher
	Briefer  Briefer
	Tracker  *governance.Tracker
	Gatherer prometheus.Gatherer
	Limits   Limits
	Logger   zerolog.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	engine  *trendops.Engine
	builder *report.Builder
	store   store.Store
	fetcher Fetcher
	briefer Briefer
	tracker *governance.Tracker
	gather  prometheus.Gatherer
	limits  Limits
	log     zerolog.Logger
}

// New builds a Server from d.
func New(d Deps) *Server {
	if d.Builder == nil {
		d.Builder = report.NewBuilder()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.Limits.MaxResultsPerRequest <= 0 {
		d.Limits.MaxResultsPerRequest = youtube.MaxResultsCap
	}
	if d.Limits.DefaultMaxResults <= 0 {
		d.Limits.DefaultMaxResults = youtube.DefaultMaxResults
	}
	return &Server{
		engine:  d.Engine,
		builder: d.Builder,
		store:   d.Store,
		fetcher: d.Fetcher,
		briefer: d.Briefer,
		tracker: d.Tracker,
		gather:  d.Gatherer,
		limits:  d.Limits,
		log:     d.Logger,
	}
}

// Routes returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", s.handleListReports)
		r.Get("/{id}", s.handleGetReport)
	})

	r.Get("/governance/trace", s.handleTrace)
	r.Route("/config", func(r chi.Router) {
		r.Get("/regions", s.handleRegions)
		r.Get("/categories", s.handleCategories)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info().Msg("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
