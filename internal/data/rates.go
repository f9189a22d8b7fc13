package data

import (
	"sofr-analyzer/internal/models"
)

// SOFR futures are quoted as 100 minus the expected average overnight rate
// for the contract's reference quarter.

// ImpliedRate converts a futures price to the implied SOFR rate in percent.
func ImpliedRate(price float64) float64 {
	return 100 - price
}

// PriceFromRate converts a SOFR rate in percent back to the futures price.
func PriceFromRate(rate float64) float64 {
	return 100 - rate
}

// BasisPoints expresses a price distance in rate basis points. One full
// price point equals 100 bps.
func BasisPoints(priceDistance float64) float64 {
	return priceDistance * 100
}

// TickValue returns the dollar value of a price move for the given contract
// specification.
func TickValue(specs models.ContractSpecs, priceMove float64) float64 {
	if specs.TickSize == 0 {
		return 0
	}
	return priceMove / specs.TickSize * specs.TickValue
}
