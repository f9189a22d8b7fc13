package levels

import (
	"math"
	"sort"

	"sofr-analyzer/internal/models"
)

// filterByTouches drops levels with less evidence than the configured
// minimum.
func filterByTouches(levels []*models.Level, minTouches int) []*models.Level {
	var out []*models.Level
	for _, l := range levels {
		if l.Strength >= minTouches {
			out = append(out, l)
		}
	}
	return out
}

// sortByStrength orders levels by touch count descending. The sort is stable
// so levels of equal strength keep their consolidation (price-ascending)
// order.
func sortByStrength(levels []*models.Level) {
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Strength > levels[j].Strength
	})
}

// NearestLevels returns the count levels closest to the current price by
// absolute distance. The selection sort is stable, so among equidistant
// levels the stronger one (earlier in the strength ordering) wins.
func NearestLevels(levels []*models.Level, currentPrice float64, count int) []*models.Level {
	if len(levels) == 0 || count <= 0 {
		return nil
	}

	sorted := make([]*models.Level, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Price-currentPrice) < math.Abs(sorted[j].Price-currentPrice)
	})

	if count > len(sorted) {
		count = len(sorted)
	}
	return sorted[:count]
}

// orderForDisplay sorts supports by price descending (nearest below first)
// and resistances by price ascending (nearest above first).
func orderForDisplay(levels []*models.Level, side models.LevelSide) {
	sort.SliceStable(levels, func(i, j int) bool {
		if side == models.LevelSupport {
			return levels[i].Price > levels[j].Price
		}
		return levels[i].Price < levels[j].Price
	})
}
