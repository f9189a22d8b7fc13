package data

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/config"
	"sofr-analyzer/internal/models"
)

func TestSyntheticDeterministic(t *testing.T) {
	p := NewSyntheticProvider()
	ctx := context.Background()

	a, err := p.GetBars(ctx, "MAR26", 90)
	if err != nil {
		t.Fatalf("GetBars failed: %v", err)
	}
	b, err := p.GetBars(ctx, "MAR26", 90)
	if err != nil {
		t.Fatalf("GetBars failed: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("same contract produced different lengths: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bar %d differs between runs", i)
		}
	}
}

func TestSyntheticContractsDiffer(t *testing.T) {
	p := NewSyntheticProvider()
	ctx := context.Background()

	a, _ := p.GetBars(ctx, "MAR26", 90)
	b, _ := p.GetBars(ctx, "JUN26", 90)

	same := len(a) == len(b)
	if same {
		for i := range a {
			if a[i].Close != b[i].Close {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("different contracts should produce different series")
	}
}

func TestSyntheticBarInvariants(t *testing.T) {
	p := NewSyntheticProvider()
	bars, err := p.GetBars(context.Background(), "SEP26", 120)
	if err != nil {
		t.Fatalf("GetBars failed: %v", err)
	}
	if len(bars) == 0 {
		t.Fatal("expected bars")
	}

	const tick = 0.0025
	for i, b := range bars {
		if b.High < b.Low {
			t.Errorf("bar %d: high %v below low %v", i, b.High, b.Low)
		}
		if b.High < math.Max(b.Open, b.Close) || b.Low > math.Min(b.Open, b.Close) {
			t.Errorf("bar %d: OHLC envelope violated", i)
		}
		if wd := b.Timestamp.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("bar %d: weekend timestamp %v", i, b.Timestamp)
		}
		if rem := math.Abs(math.Mod(b.Close/tick, 1)); rem > 1e-6 && rem < 1-1e-6 {
			t.Errorf("bar %d: close %v off the tick grid", i, b.Close)
		}
		if i > 0 && !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			t.Errorf("bar %d: not chronological", i)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	contract := models.Contract("MAR26")

	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	want := []models.Bar{
		{Timestamp: base, Open: 95.50, High: 95.55, Low: 95.45, Close: 95.52, Volume: 120000},
		{Timestamp: base.AddDate(0, 0, 1), Open: 95.52, High: 95.58, Low: 95.50, Close: 95.56, Volume: 98000},
		{Timestamp: base.AddDate(0, 0, 2), Open: 95.56, High: 95.60, Low: 95.51, Close: 95.53, Volume: 143000},
	}

	if err := WriteCSV(dir, contract, want); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	p := NewCSVProvider(dir, zerolog.Nop())
	got, err := p.GetBars(context.Background(), contract, 0)
	if err != nil {
		t.Fatalf("GetBars failed: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d bars, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Timestamp.Equal(want[i].Timestamp) || got[i].Close != want[i].Close || got[i].Volume != want[i].Volume {
			t.Errorf("bar %d round-tripped incorrectly: %+v vs %+v", i, got[i], want[i])
		}
	}
}

func TestCSVLookbackTrim(t *testing.T) {
	dir := t.TempDir()
	contract := models.Contract("JUN26")

	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	var bars []models.Bar
	for i := 0; i < 10; i++ {
		bars = append(bars, models.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      95.5, High: 95.6, Low: 95.4, Close: 95.5,
			Volume: 1000,
		})
	}
	if err := WriteCSV(dir, contract, bars); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	p := NewCSVProvider(dir, zerolog.Nop())
	got, err := p.GetBars(context.Background(), contract, 4)
	if err != nil {
		t.Fatalf("GetBars failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected trailing 4 bars, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(base.AddDate(0, 0, 6)) {
		t.Errorf("expected trim to keep the most recent bars, first is %v", got[0].Timestamp)
	}
}

func TestCSVMissingFile(t *testing.T) {
	p := NewCSVProvider(filepath.Join(t.TempDir(), "nope"), zerolog.Nop())
	_, err := p.GetBars(context.Background(), "DEC26", 90)
	if !errors.Is(err, apperrors.ErrDataNotFound) {
		t.Errorf("expected ErrDataNotFound, got %v", err)
	}
}

func TestImpliedRate(t *testing.T) {
	if got := ImpliedRate(95.50); math.Abs(got-4.50) > 1e-9 {
		t.Errorf("ImpliedRate(95.50) = %v, want 4.50", got)
	}
	if got := PriceFromRate(4.50); math.Abs(got-95.50) > 1e-9 {
		t.Errorf("PriceFromRate(4.50) = %v, want 95.50", got)
	}
	if got := BasisPoints(0.25); math.Abs(got-25) > 1e-9 {
		t.Errorf("BasisPoints(0.25) = %v, want 25", got)
	}
}

func TestTickValue(t *testing.T) {
	specs := models.ContractSpecs{TickSize: 0.0025, TickValue: 6.25, ContractSize: 1000000}
	// A one-tick move is worth one tick value.
	if got := TickValue(specs, 0.0025); math.Abs(got-6.25) > 1e-9 {
		t.Errorf("TickValue one tick = %v, want 6.25", got)
	}
	// A full point is 400 ticks.
	if got := TickValue(specs, 1.0); math.Abs(got-2500) > 1e-9 {
		t.Errorf("TickValue full point = %v, want 2500", got)
	}
}

func configFor(provider string) config.DataSourceConfig {
	return config.DataSourceConfig{Provider: provider, CSVPath: "data"}
}

func TestProviderFactory(t *testing.T) {
	logger := zerolog.Nop()

	cases := []struct {
		provider string
		wantErr  bool
	}{
		{"csv", false},
		{"synthetic", false},
		{"sqlite", true}, // no store supplied
		{"bloomberg", true},
	}
	for _, tc := range cases {
		_, err := New(configFor(tc.provider), nil, logger)
		if tc.wantErr && err == nil {
			t.Errorf("provider %q: expected error", tc.provider)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("provider %q: unexpected error %v", tc.provider, err)
		}
	}
}
