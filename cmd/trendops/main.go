package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cognicore/trendops/internal/logging"
	"github.com/cognicore/trendops/internal/settings"
	"github.com/cognicore/trendops/pkg/trendops"
	"github.com/cognicore/trendops/pkg/trendops/config"
)

var (
	envFile     string
	profilePath string
	stoplistCfg string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "trendops",
		Short:         "Trending video analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Analysis profile YAML (overrides PROFILE_PATH)")
	rootCmd.PersistentFlags().StringVar(&stoplistCfg, "stoplist", "", "Optional stoplist YAML")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(pruneCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// environment loads settings and the logger shared by every command.
func environment() (*settings.Config, zerolog.Logger, error) {
	cfg, err := settings.Load(envFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logging.New(cfg.LogLevel, cfg.LogFormat), nil
}

func engineOptions(cfg *settings.Config) (trendops.Options, error) {
	path := profilePath
	if path == "" {
		path = cfg.ProfilePath
	}
	loader := config.Loader{ProfilePath: path, StoplistPath: stoplistCfg}
	return loader.Load()
}
