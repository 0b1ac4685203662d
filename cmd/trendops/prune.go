package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/trendops/pkg/trendops/maintenance"
	"github.com/cognicore/trendops/pkg/trendops/store/sqlite"
)

func pruneCmd() *cobra.Command {
	var olderThan string
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete stored reports older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := environment()
			if err != nil {
				return err
			}
			retention, err := cfg.Retention()
			if err != nil {
				return err
			}
			if olderThan != "" {
				if retention, err = maintenance.ParseRetention(olderThan); err != nil {
					return err
				}
			}

			st, err := sqlite.OpenSQLite(cmd.Context(), cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := (&maintenance.Pruner{Store: st, Retention: retention}).Prune(cmd.Context())
			if err != nil {
				return err
			}
			log.Info().Time("cutoff", res.Cutoff).Int("deleted", res.Deleted).Msg("prune complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&olderThan, "older-than", "", "ISO-8601 retention, e.g. P7D (overrides REPORT_RETENTION)")
	return cmd
}
