package levels

import (
	"math"

	"sofr-analyzer/internal/config"
	"sofr-analyzer/internal/models"
)

// findFibonacciLevels derives retracement levels between the series' swing
// high and swing low, then grounds each theoretical price in observed
// evidence: a bar whose Low or High lies within the price tolerance of the
// retracement price counts as a touch. Ratios with no empirical touch emit
// nothing, and a disabled detector returns without computing anything.
func findFibonacciLevels(series []models.Bar, stats seriesStats, cfg config.FibonacciConfig, tolerance float64) (supports, resistances []*models.Level) {
	if !cfg.Enabled || len(cfg.Levels) == 0 {
		return nil, nil
	}

	swingHigh := stats.maxHigh
	swingLow := stats.minLow
	if swingHigh-swingLow <= 0 {
		return nil, nil
	}

	for _, ratio := range cfg.Levels {
		price := swingHigh - (swingHigh-swingLow)*ratio

		side := models.LevelResistance
		if price < stats.currentPrice {
			side = models.LevelSupport
		}
		level := models.NewLevel(price, side, "fibonacci")

		for _, b := range series {
			if math.Abs(b.Low-price) <= tolerance {
				level.AddTouch(b.Timestamp, b.Low, b.Volume)
			} else if math.Abs(b.High-price) <= tolerance {
				level.AddTouch(b.Timestamp, b.High, b.Volume)
			}
		}
		if level.Strength == 0 {
			continue
		}

		if side == models.LevelSupport {
			supports = append(supports, level)
		} else {
			resistances = append(resistances, level)
		}
	}

	return supports, resistances
}
