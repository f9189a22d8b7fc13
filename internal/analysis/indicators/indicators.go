// Package indicators computes the technical indicator battery shown
// alongside the level report.
package indicators

import (
	"sync"

	"github.com/markcheno/go-talib"

	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/models"
)

// minBars is the history required by the slowest indicator (SMA 50).
const minBars = 50

// Snapshot holds the latest value of each indicator.
type Snapshot struct {
	SMA20      float64
	SMA50      float64
	EMA9       float64
	EMA21      float64
	RSI14      float64
	ATR14      float64
	ROC10      float64
	BBUpper    float64
	BBMiddle   float64
	BBLower    float64
	VolumeMA20 float64
	VWAP       float64
}

// Compute calculates the full battery over a chronological series. The four
// indicator groups are independent and run in parallel.
func Compute(bars []models.Bar) (*Snapshot, error) {
	if len(bars) < minBars {
		return nil, apperrors.NewSeriesError("not enough bars for indicators", len(bars))
	}

	n := len(bars)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = float64(b.Volume)
	}

	snap := &Snapshot{}
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		snap.SMA20 = last(talib.Sma(closes, 20))
		snap.SMA50 = last(talib.Sma(closes, 50))
		snap.EMA9 = last(talib.Ema(closes, 9))
		snap.EMA21 = last(talib.Ema(closes, 21))
	}()
	go func() {
		defer wg.Done()
		snap.RSI14 = last(talib.Rsi(closes, 14))
		snap.ROC10 = last(talib.Roc(closes, 10))
	}()
	go func() {
		defer wg.Done()
		snap.ATR14 = last(talib.Atr(highs, lows, closes, 14))
		upper, middle, lower := talib.BBands(closes, 20, 2.0, 2.0, talib.SMA)
		snap.BBUpper = last(upper)
		snap.BBMiddle = last(middle)
		snap.BBLower = last(lower)
	}()
	go func() {
		defer wg.Done()
		snap.VolumeMA20 = last(talib.Sma(volumes, 20))
		snap.VWAP = vwap(bars)
	}()

	wg.Wait()
	return snap, nil
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}

// vwap is the volume-weighted average of the typical price across the whole
// series. Zero total volume yields zero.
func vwap(bars []models.Bar) float64 {
	var pv, vol float64
	for _, b := range bars {
		typical := (b.High + b.Low + b.Close) / 3
		pv += typical * float64(b.Volume)
		vol += float64(b.Volume)
	}
	if vol == 0 {
		return 0
	}
	return pv / vol
}
