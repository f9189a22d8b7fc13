// Package models provides domain models for the analyzer.
package models

import (
	"time"
)

// Bar represents one OHLCV observation for a trading session.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Range returns the high-low price range of the bar.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// Contract represents a SOFR futures contract identifier, e.g. "MAR26".
type Contract string

// ContractSpecs holds the futures contract specification.
type ContractSpecs struct {
	TickSize     float64
	TickValue    float64
	ContractSize float64
}

// Quote holds the latest observed price for a contract.
type Quote struct {
	Contract  Contract
	Price     float64
	Timestamp time.Time
}

// Statistics summarizes an analysis relative to the current price.
type Statistics struct {
	CurrentPrice          float64
	NearestSupport        float64
	NearestResistance     float64
	HasNearestSupport     bool
	HasNearestResistance  bool
	SupportDistance       float64
	ResistanceDistance    float64
	SupportDistancePct    float64
	ResistanceDistancePct float64
	TradingRange          float64
	PositionInRange       float64
	HasTradingRange       bool
	TotalSupports         int
	TotalResistances      int
	ATR                   float64
}
