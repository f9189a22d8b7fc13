package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sofr-analyzer/internal/analyzer"
	"sofr-analyzer/internal/data"
	"sofr-analyzer/internal/models"
	"sofr-analyzer/internal/report"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [contract...]",
		Short: "Detect and score support/resistance levels",
		Long: `Run the full level-detection pipeline for one or more contracts.
Without arguments, every configured contract is analyzed.`,
		Example: `  sofr-analyzer analyze
  sofr-analyzer analyze MAR26
  sofr-analyzer analyze MAR26 JUN26 --lookback 120 --levels 3
  sofr-analyzer analyze --export levels.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
			defer cancel()

			cfg := *app.Config
			if lookback, _ := cmd.Flags().GetInt("lookback"); lookback > 0 {
				cfg.Detection.LookbackDays = lookback
			}
			if levelsPerSide, _ := cmd.Flags().GetInt("levels"); levelsPerSide > 0 {
				cfg.Analysis.MaxLevelsPerSide = levelsPerSide
			}

			contracts := make([]models.Contract, 0, len(args))
			for _, a := range args {
				contracts = append(contracts, models.Contract(strings.ToUpper(a)))
			}
			if len(contracts) == 0 {
				for _, c := range cfg.Contracts {
					contracts = append(contracts, models.Contract(c))
				}
			}

			provider, err := data.New(cfg.DataSource, app.Store, app.Logger)
			if err != nil {
				output.Error("Provider setup failed: %v", err)
				return err
			}

			a, err := analyzer.New(&cfg, provider, app.Logger)
			if err != nil {
				output.Error("Analyzer setup failed: %v", err)
				return err
			}

			results, err := a.AnalyzeContracts(ctx, contracts)
			if err != nil {
				output.Error("Analysis failed: %v", err)
				return err
			}

			if output.IsJSON() {
				if err := output.JSON(results); err != nil {
					return err
				}
			} else {
				report.NewRenderer(output.Writer(), &cfg).RenderAll(results)
			}

			if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
				if exportPath == "auto" {
					exportPath = report.DefaultExportPath(time.Now())
				}
				if err := report.ExportCSV(exportPath, results); err != nil {
					output.Error("Export failed: %v", err)
					return err
				}
				output.Success("Levels exported to %s", exportPath)
			}
			return nil
		},
	}

	cmd.Flags().Int("lookback", 0, "override lookback window in days")
	cmd.Flags().Int("levels", 0, "override levels shown per side")
	cmd.Flags().String("export", "", "export levels to CSV ('auto' for a dated filename)")
	return cmd
}
