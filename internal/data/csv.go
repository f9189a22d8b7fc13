package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/models"
)

// csvBar is the on-disk row format: one daily bar per line with an ISO date.
type csvBar struct {
	Date   string  `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int64   `csv:"volume"`
}

const csvDateLayout = "2006-01-02"

// CSVProvider reads bars from <dir>/<CONTRACT>.csv files.
type CSVProvider struct {
	dir string
	log zerolog.Logger
}

// NewCSVProvider creates a provider reading from the given directory.
func NewCSVProvider(dir string, logger zerolog.Logger) *CSVProvider {
	return &CSVProvider{dir: dir, log: logger}
}

func (p *CSVProvider) Name() string { return "csv" }

// GetBars loads the contract's CSV file and returns the trailing
// lookbackDays bars in chronological order.
func (p *CSVProvider) GetBars(ctx context.Context, contract models.Contract, lookbackDays int) ([]models.Bar, error) {
	path := filepath.Join(p.dir, string(contract)+".csv")

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewDataError(p.Name(), string(contract), "no csv file at "+path, apperrors.ErrDataNotFound)
		}
		return nil, apperrors.NewDataError(p.Name(), string(contract), "opening csv", err)
	}
	defer f.Close()

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, apperrors.NewDataError(p.Name(), string(contract), "parsing csv", err)
	}

	bars := make([]models.Bar, 0, len(rows))
	for i, r := range rows {
		ts, err := time.Parse(csvDateLayout, r.Date)
		if err != nil {
			return nil, apperrors.NewDataError(p.Name(), string(contract),
				fmt.Sprintf("bad date %q on row %d", r.Date, i+1), err)
		}
		bars = append(bars, models.Bar{
			Timestamp: ts.UTC(),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		})
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})
	if lookbackDays > 0 && len(bars) > lookbackDays {
		bars = bars[len(bars)-lookbackDays:]
	}

	p.log.Debug().Str("contract", string(contract)).Int("bars", len(bars)).Str("path", path).Msg("loaded csv bars")
	return bars, nil
}

// WriteCSV writes bars to <dir>/<CONTRACT>.csv, creating the directory when
// missing. Used by the data generate and download commands.
func WriteCSV(dir string, contract models.Contract, bars []models.Bar) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Wrap(err, "creating csv directory")
	}
	path := filepath.Join(dir, string(contract)+".csv")

	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(err, "creating csv file")
	}
	defer f.Close()

	rows := make([]*csvBar, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, &csvBar{
			Date:   b.Timestamp.UTC().Format(csvDateLayout),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return apperrors.Wrap(err, "writing csv rows")
	}
	return nil
}
