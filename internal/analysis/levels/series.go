// Package levels implements the support/resistance detection engine: four
// independent detectors over one OHLCV series, geometric consolidation of
// their candidates, multi-factor strength scoring and nearest-level
// selection.
package levels

import (
	"sort"

	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/models"
)

// PrepareSeries validates and normalizes a raw bar sequence: bars are sorted
// chronologically, duplicate timestamps dropped (first occurrence wins), and
// the result checked against the minimum length required by the pivot
// window. Returns a new slice; the input is not modified.
func PrepareSeries(bars []models.Bar, pivotWindow int) ([]models.Bar, error) {
	minBars := 2*pivotWindow + 1

	series := make([]models.Bar, len(bars))
	copy(series, bars)

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	deduped := series[:0]
	for i, b := range series {
		if i > 0 && b.Timestamp.Equal(deduped[len(deduped)-1].Timestamp) {
			continue
		}
		deduped = append(deduped, b)
	}
	series = deduped

	for _, b := range series {
		if b.High < b.Low {
			return nil, apperrors.NewSeriesError("bar high below low", len(series))
		}
	}

	if len(series) < minBars {
		return nil, apperrors.NewSeriesError("not enough bars for pivot window", len(series))
	}

	return series, nil
}

// seriesStats holds values derived once per analysis and shared by the
// detectors and the scorer.
type seriesStats struct {
	minLow       float64
	maxHigh      float64
	currentPrice float64
	meanVolume   float64
	barIndex     map[int64]int // unix timestamp -> bar index
}

func computeStats(series []models.Bar) seriesStats {
	s := seriesStats{
		minLow:   series[0].Low,
		maxHigh:  series[0].High,
		barIndex: make(map[int64]int, len(series)),
	}

	var totalVolume int64
	for i, b := range series {
		if b.Low < s.minLow {
			s.minLow = b.Low
		}
		if b.High > s.maxHigh {
			s.maxHigh = b.High
		}
		totalVolume += b.Volume
		s.barIndex[b.Timestamp.Unix()] = i
	}

	s.currentPrice = series[len(series)-1].Close
	s.meanVolume = float64(totalVolume) / float64(len(series))
	return s
}
