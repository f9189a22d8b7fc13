package levels

import (
	"sync"

	"github.com/rs/zerolog"

	"sofr-analyzer/internal/config"
	"sofr-analyzer/internal/models"
)

// Detector is the level-detection engine. It is re-entrant: each Analyze
// call works on its own series and level instances and keeps no state
// between calls.
type Detector struct {
	cfg config.DetectionConfig
	log zerolog.Logger
}

// NewDetector creates a detection engine with validated configuration.
func NewDetector(cfg config.DetectionConfig, logger zerolog.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg, log: logger}, nil
}

// Result holds the full set of consolidated, filtered and scored levels for
// one analysis call, ordered by touch count descending per side.
type Result struct {
	CurrentPrice float64
	Supports     []*models.Level
	Resistances  []*models.Level
}

// candidates is one detector's output slot. Detectors run concurrently but
// results are pooled in fixed detector order, keeping the engine
// deterministic.
type candidates struct {
	supports    []*models.Level
	resistances []*models.Level
}

// Analyze runs the full pipeline over a raw bar sequence: validation, the
// four detectors, per-side consolidation, the minimum-touch filter and
// strength scoring.
func (d *Detector) Analyze(bars []models.Bar) (*Result, error) {
	window := d.cfg.Pivot.LeftBars

	series, err := PrepareSeries(bars, window)
	if err != nil {
		return nil, err
	}
	stats := computeStats(series)

	detectors := []func() candidates{
		func() candidates {
			s, r := findPivotLevels(series, window)
			return candidates{supports: s, resistances: r}
		},
		func() candidates {
			s, r := findClusterLevels(series, stats, d.cfg.PriceTolerance)
			return candidates{supports: s, resistances: r}
		},
		func() candidates {
			s, r := findVolumeLevels(series, stats, d.cfg.VolumeProfile)
			return candidates{supports: s, resistances: r}
		},
		func() candidates {
			s, r := findFibonacciLevels(series, stats, d.cfg.Fibonacci, d.cfg.PriceTolerance)
			return candidates{supports: s, resistances: r}
		},
	}

	// The detectors are read-only over the same series and produce
	// disjoint level objects, so they run in parallel with no
	// coordination beyond the join.
	slots := make([]candidates, len(detectors))
	var wg sync.WaitGroup
	for i, detect := range detectors {
		wg.Add(1)
		go func(i int, detect func() candidates) {
			defer wg.Done()
			slots[i] = detect()
		}(i, detect)
	}
	wg.Wait()

	var allSupports, allResistances []*models.Level
	for _, c := range slots {
		allSupports = append(allSupports, c.supports...)
		allResistances = append(allResistances, c.resistances...)
	}

	d.log.Debug().
		Int("support_candidates", len(allSupports)).
		Int("resistance_candidates", len(allResistances)).
		Float64("current_price", stats.currentPrice).
		Msg("detectors finished")

	// The two sides are independent of each other; consolidate, filter
	// and score them concurrently.
	result := &Result{CurrentPrice: stats.currentPrice}
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Supports = d.finalizeSide(allSupports, models.LevelSupport, series, stats)
	}()
	go func() {
		defer wg.Done()
		result.Resistances = d.finalizeSide(allResistances, models.LevelResistance, series, stats)
	}()
	wg.Wait()

	d.log.Debug().
		Int("supports", len(result.Supports)).
		Int("resistances", len(result.Resistances)).
		Msg("levels consolidated and scored")

	return result, nil
}

func (d *Detector) finalizeSide(cands []*models.Level, side models.LevelSide, series []models.Bar, stats seriesStats) []*models.Level {
	merged := consolidate(cands, side, d.cfg.PriceTolerance)
	valid := filterByTouches(merged, d.cfg.MinTouches)
	sortByStrength(valid)

	sc := newScorer(series, stats)
	for _, l := range valid {
		l.StrengthScore = sc.score(l)
		l.Scored = true
	}
	return valid
}

// Nearest selects the count levels per side closest to the current price and
// orders them for display: supports price-descending, resistances
// price-ascending.
func (r *Result) Nearest(count int) *models.LevelSet {
	set := &models.LevelSet{
		Supports:    NearestLevels(r.Supports, r.CurrentPrice, count),
		Resistances: NearestLevels(r.Resistances, r.CurrentPrice, count),
	}
	orderForDisplay(set.Supports, models.LevelSupport)
	orderForDisplay(set.Resistances, models.LevelResistance)
	return set
}
