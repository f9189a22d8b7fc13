package analyzer

import (
	"sofr-analyzer/internal/analysis/levels"
	"sofr-analyzer/internal/models"
)

// computeStatistics summarizes a detection result relative to the current
// price. The nearest support is the highest-priced support at or below the
// current price, the nearest resistance the lowest-priced one above it;
// levels on the wrong side of the price are counted but never "nearest".
func computeStatistics(result *levels.Result, atr float64) models.Statistics {
	stats := models.Statistics{
		CurrentPrice:     result.CurrentPrice,
		TotalSupports:    len(result.Supports),
		TotalResistances: len(result.Resistances),
		ATR:              atr,
	}

	for _, l := range result.Supports {
		if l.Price > stats.CurrentPrice {
			continue
		}
		if !stats.HasNearestSupport || l.Price > stats.NearestSupport {
			stats.NearestSupport = l.Price
			stats.HasNearestSupport = true
		}
	}
	for _, l := range result.Resistances {
		if l.Price < stats.CurrentPrice {
			continue
		}
		if !stats.HasNearestResistance || l.Price < stats.NearestResistance {
			stats.NearestResistance = l.Price
			stats.HasNearestResistance = true
		}
	}

	if stats.HasNearestSupport {
		stats.SupportDistance = stats.CurrentPrice - stats.NearestSupport
		if stats.CurrentPrice != 0 {
			stats.SupportDistancePct = stats.SupportDistance / stats.CurrentPrice * 100
		}
	}
	if stats.HasNearestResistance {
		stats.ResistanceDistance = stats.NearestResistance - stats.CurrentPrice
		if stats.CurrentPrice != 0 {
			stats.ResistanceDistancePct = stats.ResistanceDistance / stats.CurrentPrice * 100
		}
	}

	if stats.HasNearestSupport && stats.HasNearestResistance {
		stats.TradingRange = stats.NearestResistance - stats.NearestSupport
		if stats.TradingRange > 0 {
			stats.PositionInRange = (stats.CurrentPrice - stats.NearestSupport) / stats.TradingRange
			stats.HasTradingRange = true
		}
	}

	return stats
}
