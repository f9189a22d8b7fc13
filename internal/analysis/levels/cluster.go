package levels

import (
	"math"
	"sort"

	"sofr-analyzer/internal/models"
)

// findClusterLevels detects levels from repeated testing of a price zone
// without requiring local-extrema geometry: every bar's Low and High are
// assigned to adaptive price bins, and any bin touched at least twice
// becomes a candidate. This catches levels the windowed pivot method misses,
// such as consecutive near-equal lows that are not strict local minima.
func findClusterLevels(series []models.Bar, stats seriesStats, tolerance float64) (supports, resistances []*models.Level) {
	priceRange := stats.maxHigh - stats.minLow
	binSize := math.Max(tolerance, priceRange/100)

	lowBins := make(map[float64][]models.Touch)
	highBins := make(map[float64][]models.Touch)

	for _, b := range series {
		lowKey := math.Round(b.Low/binSize) * binSize
		lowBins[lowKey] = append(lowBins[lowKey], models.Touch{Timestamp: b.Timestamp, Price: b.Low, Volume: b.Volume})

		highKey := math.Round(b.High/binSize) * binSize
		highBins[highKey] = append(highBins[highKey], models.Touch{Timestamp: b.Timestamp, Price: b.High, Volume: b.Volume})
	}

	supports = binsToLevels(lowBins, models.LevelSupport)
	resistances = binsToLevels(highBins, models.LevelResistance)
	return supports, resistances
}

// binsToLevels emits one level per bin with >= 2 touches. Bin keys are
// sorted so the output order does not depend on map iteration.
func binsToLevels(bins map[float64][]models.Touch, side models.LevelSide) []*models.Level {
	keys := make([]float64, 0, len(bins))
	for k := range bins {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	var out []*models.Level
	for _, price := range keys {
		touches := bins[price]
		if len(touches) < 2 {
			continue
		}
		level := models.NewLevel(price, side, "cluster")
		for _, t := range touches {
			level.AddTouch(t.Timestamp, t.Price, t.Volume)
		}
		out = append(out, level)
	}
	return out
}
