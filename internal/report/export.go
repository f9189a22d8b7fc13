package report

import (
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"sofr-analyzer/internal/analyzer"
	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/data"
	"sofr-analyzer/internal/models"
)

// levelRow is the CSV export format, one row per level.
type levelRow struct {
	Contract  string  `csv:"contract"`
	Side      string  `csv:"side"`
	Price     float64 `csv:"price"`
	Rate      float64 `csv:"implied_rate"`
	Touches   int     `csv:"touches"`
	Score     float64 `csv:"score"`
	Source    string  `csv:"source"`
	FirstTest string  `csv:"first_test"`
	LastTest  string  `csv:"last_test"`
}

const exportDateLayout = "2006-01-02"

func toRow(contract models.Contract, l *models.Level) *levelRow {
	row := &levelRow{
		Contract: string(contract),
		Side:     string(l.Side),
		Price:    l.Price,
		Rate:     data.ImpliedRate(l.Price),
		Touches:  l.Strength,
		Score:    l.StrengthScore,
		Source:   l.Source,
	}
	if ts, ok := l.FirstTest(); ok {
		row.FirstTest = ts.Format(exportDateLayout)
	}
	if ts, ok := l.LastTest(); ok {
		row.LastTest = ts.Format(exportDateLayout)
	}
	return row
}

// ExportCSV writes every level of every analyzed contract to a CSV file.
// Supports come first per contract, then resistances, both in display order.
func ExportCSV(path string, results []*analyzer.ContractAnalysis) error {
	var rows []*levelRow
	for _, res := range results {
		for _, l := range res.Levels.Supports {
			rows = append(rows, toRow(res.Contract, l))
		}
		for _, l := range res.Levels.Resistances {
			rows = append(rows, toRow(res.Contract, l))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(err, "creating export file")
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return apperrors.Wrap(err, "writing export rows")
	}
	return nil
}

// exportTimestamp names default export files by date.
func exportTimestamp(now time.Time) string {
	return now.UTC().Format("20060102")
}

// DefaultExportPath builds the default export filename.
func DefaultExportPath(now time.Time) string {
	return "sofr-levels-" + exportTimestamp(now) + ".csv"
}
