package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/trendops/internal/settings"
	"github.com/cognicore/trendops/internal/youtube"
)

func fetchCmd() *cobra.Command {
	var (
		region     string
		category   string
		maxResults int
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch trending videos and print them as JSONL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := environment()
			if err != nil {
				return err
			}
			if err := cfg.RequireYouTube(); err != nil {
				return err
			}
			region = strings.ToUpper(region)
			if !settings.ValidRegion(region) {
				return fmt.Errorf("invalid region %q; valid: %s", region, strings.Join(settings.Regions(), ", "))
			}
			if category != "" && !settings.ValidCategory(category) {
				return fmt.Errorf("invalid category %q", category)
			}
			if maxResults <= 0 {
				maxResults = cfg.DefaultMaxResults
			}

			client := youtube.New(youtube.Options{
				BaseURL:    cfg.YouTubeBaseURL,
				APIKey:     cfg.YouTubeAPIKey,
				MaxResults: cfg.MaxResultsPerRequest,
				RPS:        cfg.YouTubeRPS,
				Timeout:    cfg.YouTubeTimeout,
				Logger:     log,
			})
			items, err := client.FetchTrending(cmd.Context(), youtube.Query{RegionCode: region, CategoryID: category, MaxResults: maxResults})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, it := range items {
				if err := enc.Encode(it); err != nil {
					return err
				}
			}
			log.Info().Str("region", region).Int("videos", len(items)).Msg("fetch complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", "US", "Region code")
	cmd.Flags().StringVar(&category, "category", "", "Optional category ID")
	cmd.Flags().IntVar(&maxResults, "max", 0, "Maximum results (default DEFAULT_MAX_RESULTS)")
	return cmd
}
