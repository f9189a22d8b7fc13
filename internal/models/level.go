package models

import (
	"time"
)

// LevelSide represents the side of a price level relative to current price.
type LevelSide string

const (
	LevelSupport    LevelSide = "support"
	LevelResistance LevelSide = "resistance"
)

// Touch records one historical instance where price reached a level.
type Touch struct {
	Timestamp time.Time
	Price     float64
	Volume    int64
}

// Level represents a horizontal support or resistance level with its
// accumulated evidence. Levels are built up by the detectors and the
// consolidator; once a strength score is assigned they are treated as
// read-only.
type Level struct {
	Price    float64
	Side     LevelSide
	Strength int
	Touches  []Touch

	// StrengthScore is assigned once by the scorer. Scored reports
	// whether assignment has happened.
	StrengthScore float64
	Scored        bool

	// Source records which detector produced the level (pivot, cluster,
	// volume, fibonacci, merged).
	Source string
}

// NewLevel creates a level with no evidence.
func NewLevel(price float64, side LevelSide, source string) *Level {
	return &Level{
		Price:  price,
		Side:   side,
		Source: source,
	}
}

// AddTouch appends a touch and keeps Strength in sync with the touch count.
// Touches must be appended in chronological order.
func (l *Level) AddTouch(ts time.Time, price float64, volume int64) {
	l.Touches = append(l.Touches, Touch{Timestamp: ts, Price: price, Volume: volume})
	l.Strength = len(l.Touches)
}

// FirstTest returns the timestamp of the earliest touch.
func (l *Level) FirstTest() (time.Time, bool) {
	if len(l.Touches) == 0 {
		return time.Time{}, false
	}
	return l.Touches[0].Timestamp, true
}

// LastTest returns the timestamp of the most recent touch.
func (l *Level) LastTest() (time.Time, bool) {
	if len(l.Touches) == 0 {
		return time.Time{}, false
	}
	return l.Touches[len(l.Touches)-1].Timestamp, true
}

// AvgVolume returns the mean volume across touches, or false when the
// level carries no touch evidence (e.g. volume-profile levels).
func (l *Level) AvgVolume() (float64, bool) {
	if len(l.Touches) == 0 {
		return 0, false
	}
	var total int64
	for _, t := range l.Touches {
		total += t.Volume
	}
	return float64(total) / float64(len(l.Touches)), true
}

// LevelSet is the output of one analysis call: the scored levels on each
// side of the current price. Callers consume it read-only.
type LevelSet struct {
	Supports    []*Level
	Resistances []*Level
}
