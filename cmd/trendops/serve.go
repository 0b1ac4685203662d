package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/cognicore/trendops/internal/governance"
	"github.com/cognicore/trendops/internal/llm"
	"github.com/cognicore/trendops/internal/server"
	"github.com/cognicore/trendops/internal/youtube"
	"github.com/cognicore/trendops/pkg/trendops"
	"github.com/cognicore/trendops/pkg/trendops/maintenance"
	"github.com/cognicore/trendops/pkg/trendops/report"
	"github.com/cognicore/trendops/pkg/trendops/store/sqlite"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := environment()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.HTTPAddr
			}
			opts, err := engineOptions(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := sqlite.OpenSQLite(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			retention, err := cfg.Retention()
			if err != nil {
				return err
			}
			if res, err := (&maintenance.Pruner{Store: st, Retention: retention}).Prune(ctx); err != nil {
				log.Warn().Err(err).Msg("startup prune failed")
			} else if res.Deleted > 0 {
				log.Info().Int("deleted", res.Deleted).Time("cutoff", res.Cutoff).Msg("pruned expired reports")
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			deps := server.Deps{
				Engine:   trendops.New(opts),
				Builder:  report.NewBuilder(),
				Store:    st,
				Tracker:  governance.NewTracker(cfg.MaxRequestsPerSession, governance.NewMetrics(reg), log),
				Gatherer: reg,
				Limits: server.Limits{
					DefaultMaxResults:    cfg.DefaultMaxResults,
					MaxResultsPerRequest: cfg.MaxResultsPerRequest,
				},
				Logger: log,
			}
			if cfg.RequireYouTube() == nil {
				deps.Fetcher = youtube.New(youtube.Options{
					BaseURL:    cfg.YouTubeBaseURL,
					APIKey:     cfg.YouTubeAPIKey,
					MaxResults: cfg.MaxResultsPerRequest,
					RPS:        cfg.YouTubeRPS,
					Timeout:    cfg.YouTubeTimeout,
					Logger:     log,
				})
			} else {
				log.Warn().Msg("YOUTUBE_API_KEY not set; /analyze will be unavailable")
			}
			if briefer := llm.New(llm.Config{APIKey: cfg.LLMAPIKey, BaseURL: cfg.LLMBaseURL, Model: cfg.LLMModel}); briefer.Enabled() {
				deps.Briefer = briefer
			}

			log.Info().
				Str("db", cfg.DBPath).
				Int("clusters", opts.Clusters).
				Int("session_budget", cfg.MaxRequestsPerSession).
				Msg("starting trendops")
			return server.New(deps).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides HTTP_ADDR)")
	return cmd
}
