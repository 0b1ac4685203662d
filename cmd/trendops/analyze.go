package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/trendops/internal/loader"
	"github.com/cognicore/trendops/pkg/trendops"
	"github.com/cognicore/trendops/pkg/trendops/report"
)

func analyzeCmd() *cobra.Command {
	var (
		input  string
		format string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a JSONL snapshot of videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "markdown" {
				return fmt.Errorf("--format must be json or markdown, got %q", format)
			}
			cfg, log, err := environment()
			if err != nil {
				return err
			}
			opts, err := engineOptions(cfg)
			if err != nil {
				return err
			}

			items, err := loader.LoadJSONL(input, log)
			if err != nil {
				return err
			}
			rep := report.NewBuilder().Stamp(trendops.New(opts).Analyze(items))
			log.Info().
				Str("report_id", rep.ID).
				Int("videos", rep.Metrics.TotalVideos).
				Int("themes", rep.Metrics.ThemesIdentified).
				Msg("analysis complete")

			out := cmd.OutOrStdout()
			if format == "markdown" {
				_, err := fmt.Fprint(out, report.Markdown(rep))
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Path to JSONL file (required)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or markdown")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
