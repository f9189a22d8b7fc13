package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sofr-analyzer/internal/data"
	"sofr-analyzer/internal/models"
)

func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage historical bar data",
	}
	cmd.AddCommand(newDataDownloadCmd(app))
	cmd.AddCommand(newDataGenerateCmd(app))
	return cmd
}

func contractArgs(app *App, args []string) []models.Contract {
	contracts := make([]models.Contract, 0, len(args))
	for _, a := range args {
		contracts = append(contracts, models.Contract(strings.ToUpper(a)))
	}
	if len(contracts) == 0 {
		for _, c := range app.Config.Contracts {
			contracts = append(contracts, models.Contract(c))
		}
	}
	return contracts
}

func newDataDownloadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download [contract...]",
		Short: "Download bars from Yahoo Finance into the local cache",
		Example: `  sofr-analyzer data download
  sofr-analyzer data download MAR26 --days 180`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Bar cache unavailable, cannot download")
				return errors.New("bar cache unavailable")
			}
			days, _ := cmd.Flags().GetInt("days")

			provider := data.NewYahooProvider(app.Config.DataSource.TickerMapping, app.Logger)
			for _, contract := range contractArgs(app, args) {
				bars, err := provider.GetBars(ctx, contract, days)
				if err != nil {
					output.Warning("%s: %v", contract, err)
					continue
				}
				if err := app.Store.SaveBars(ctx, contract, bars); err != nil {
					output.Warning("%s: caching failed: %v", contract, err)
					continue
				}
				output.Success("%s: %d bars cached", contract, len(bars))
			}
			return nil
		},
	}
	cmd.Flags().Int("days", 90, "days of history to download")
	return cmd
}

func newDataGenerateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [contract...]",
		Short: "Generate synthetic bars as CSV files for offline use",
		Example: `  sofr-analyzer data generate
  sofr-analyzer data generate MAR26 --days 120 --dir data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := context.Background()

			days, _ := cmd.Flags().GetInt("days")
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = app.Config.DataSource.CSVPath
			}

			provider := data.NewSyntheticProvider()
			for _, contract := range contractArgs(app, args) {
				bars, err := provider.GetBars(ctx, contract, days)
				if err != nil {
					output.Warning("%s: %v", contract, err)
					continue
				}
				if err := data.WriteCSV(dir, contract, bars); err != nil {
					output.Error("%s: %v", contract, err)
					return err
				}
				output.Success("%s: %d bars written to %s", contract, len(bars), dir)
			}
			return nil
		},
	}
	cmd.Flags().Int("days", 90, "days of history to generate")
	cmd.Flags().String("dir", "", "output directory (default: configured csv_path)")
	return cmd
}
