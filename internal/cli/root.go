// Package cli provides the command-line interface for the analyzer.
package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sofr-analyzer/internal/config"
	"sofr-analyzer/internal/logging"
	"sofr-analyzer/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  *store.BarStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// The bar cache is optional; analysis still works without it.
	dbPath := filepath.Join(config.DefaultConfigDir(), "bars.db")
	if st, err := store.NewBarStore(dbPath); err != nil {
		logger.Warn().Err(err).Msg("bar cache unavailable")
	} else {
		app.Store = st
		logger.Debug().Str("path", dbPath).Msg("bar cache initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "sofr-analyzer",
		Short: "Support and resistance analysis for SOFR futures",
		Long: `sofr-analyzer detects and scores support/resistance levels in daily
SOFR futures prices. Four detectors (swing pivots, price clusters, the
volume profile and optional Fibonacci retracements) feed a consolidation
and scoring pipeline; the result is a per-contract level report.

Use 'sofr-analyzer analyze' to run the full analysis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/sofr-analyzer)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newDataCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
