package indicators

import (
	"errors"
	"math"
	"testing"
	"time"

	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/models"
)

func seriesOf(n int, close func(i int) float64) []models.Bar {
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		c := close(i)
		bars = append(bars, models.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c + 0.01,
			Low:       c - 0.01,
			Close:     c,
			Volume:    100000,
		})
	}
	return bars
}

func TestComputeRequiresHistory(t *testing.T) {
	bars := seriesOf(minBars-1, func(i int) float64 { return 95.5 })
	if _, err := Compute(bars); !errors.Is(err, apperrors.ErrInvalidSeries) {
		t.Errorf("expected ErrInvalidSeries for short history, got %v", err)
	}
}

func TestComputeFlatSeries(t *testing.T) {
	bars := seriesOf(60, func(i int) float64 { return 95.5 })
	snap, err := Compute(bars)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// Every average of a constant series is the constant.
	for name, got := range map[string]float64{
		"SMA20":    snap.SMA20,
		"SMA50":    snap.SMA50,
		"EMA9":     snap.EMA9,
		"EMA21":    snap.EMA21,
		"BBMiddle": snap.BBMiddle,
		"VWAP":     snap.VWAP,
	} {
		if math.Abs(got-95.5) > 1e-9 {
			t.Errorf("%s on flat series = %v, want 95.5", name, got)
		}
	}
	if math.Abs(snap.VolumeMA20-100000) > 1e-9 {
		t.Errorf("VolumeMA20 = %v, want 100000", snap.VolumeMA20)
	}
	if snap.ROC10 != 0 {
		t.Errorf("ROC on flat series = %v, want 0", snap.ROC10)
	}
}

func TestComputeTrendingSeries(t *testing.T) {
	bars := seriesOf(60, func(i int) float64 { return 95.0 + 0.01*float64(i) })
	snap, err := Compute(bars)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if snap.SMA20 <= snap.SMA50 {
		t.Errorf("uptrend: SMA20 (%v) should sit above SMA50 (%v)", snap.SMA20, snap.SMA50)
	}
	if snap.EMA9 <= snap.EMA21 {
		t.Errorf("uptrend: EMA9 (%v) should sit above EMA21 (%v)", snap.EMA9, snap.EMA21)
	}
	if snap.RSI14 < 50 || snap.RSI14 > 100 {
		t.Errorf("steady uptrend RSI = %v, want within (50, 100]", snap.RSI14)
	}
	if snap.ROC10 <= 0 {
		t.Errorf("uptrend ROC = %v, want > 0", snap.ROC10)
	}
	if snap.BBUpper <= snap.BBMiddle || snap.BBMiddle <= snap.BBLower {
		t.Error("Bollinger bands out of order")
	}
	if snap.ATR14 <= 0 {
		t.Errorf("ATR = %v, want > 0", snap.ATR14)
	}
}

func TestVWAPZeroVolume(t *testing.T) {
	bars := seriesOf(60, func(i int) float64 { return 95.5 })
	for i := range bars {
		bars[i].Volume = 0
	}
	if got := vwap(bars); got != 0 {
		t.Errorf("zero-volume VWAP = %v, want 0", got)
	}
}
