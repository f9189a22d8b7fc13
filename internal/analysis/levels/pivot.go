package levels

import (
	"sofr-analyzer/internal/models"
)

// findPivotLevels detects swing lows and highs using a symmetric comparison
// window of half-width w. A bar is a swing low when its Low is <= every Low
// in [i-w, i+w]; swing highs are symmetric on High. The comparisons are
// non-strict so plateau bars all mark: duplicate consecutive extrema
// reinforce the same zone once consolidated. Bars within w of either
// boundary are never evaluated.
func findPivotLevels(series []models.Bar, w int) (supports, resistances []*models.Level) {
	n := len(series)

	for i := w; i < n-w; i++ {
		bar := series[i]

		isSwingLow := true
		isSwingHigh := true
		for j := i - w; j <= i+w; j++ {
			if series[j].Low < bar.Low {
				isSwingLow = false
			}
			if series[j].High > bar.High {
				isSwingHigh = false
			}
			if !isSwingLow && !isSwingHigh {
				break
			}
		}

		if isSwingLow {
			level := models.NewLevel(bar.Low, models.LevelSupport, "pivot")
			level.AddTouch(bar.Timestamp, bar.Low, bar.Volume)
			supports = append(supports, level)
		}
		if isSwingHigh {
			level := models.NewLevel(bar.High, models.LevelResistance, "pivot")
			level.AddTouch(bar.Timestamp, bar.High, bar.Volume)
			resistances = append(resistances, level)
		}
	}

	return supports, resistances
}
