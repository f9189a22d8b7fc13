package levels

import (
	"math"
	"time"

	"sofr-analyzer/internal/models"
)

// Factor weights for the strength score. They sum to 1.0; the final clamp
// guards against overflow from the baseline substitution paths.
const (
	weightTouches = 0.30
	weightRecency = 0.20
	weightBounce  = 0.25
	weightVolume  = 0.15
	weightSpan    = 0.10

	touchSaturation = 6.0 // touches at which the touch factor maxes out
	recencyHorizon  = 90.0
	spanHorizon     = 60.0

	bounceLookahead   = 3
	bounceBaseline    = 0.3
	volumeBaselineRaw = 0.05 // fixed contribution when no volume data
)

// scorer computes normalized confidence scores for consolidated levels.
type scorer struct {
	series []models.Bar
	stats  seriesStats
	now    time.Time
}

func newScorer(series []models.Bar, stats seriesStats) *scorer {
	return &scorer{
		series: series,
		stats:  stats,
		// Recency is measured against the series' last bar rather than
		// the wall clock so the engine stays deterministic.
		now: series[len(series)-1].Timestamp,
	}
}

// score assigns the confidence score in [0, 1] as a weighted sum of touch
// count, recency, bounce quality, volume confirmation and temporal span.
func (s *scorer) score(level *models.Level) float64 {
	score := math.Min(float64(level.Strength)/touchSaturation, 1) * weightTouches

	if lastTest, ok := level.LastTest(); ok {
		days := s.now.Sub(lastTest).Hours() / 24
		score += math.Max(0, 1-days/recencyHorizon) * weightRecency
	}

	score += s.bounceRatio(level) * weightBounce

	if avgVol, ok := level.AvgVolume(); ok && s.stats.meanVolume > 0 {
		score += math.Min(avgVol/s.stats.meanVolume, 2) / 2 * weightVolume
	} else {
		score += volumeBaselineRaw
	}

	if first, ok := level.FirstTest(); ok {
		last, _ := level.LastTest()
		ageDays := last.Sub(first).Hours() / 24
		score += math.Min(ageDays/spanHorizon, 1) * weightSpan
	}

	return math.Max(0, math.Min(score, 1))
}

// bounceRatio is the fraction of touches after which price actually reversed
// within the look-ahead window: for support a subsequent close above the
// touch price, for resistance a subsequent close below it. Touches with
// fewer than three remaining bars are excluded from the denominator; with no
// eligible touches at all a fixed baseline ratio applies.
func (s *scorer) bounceRatio(level *models.Level) float64 {
	n := len(s.series)
	eligible := 0
	bounced := 0

	for _, t := range level.Touches {
		idx, ok := s.stats.barIndex[t.Timestamp.Unix()]
		if !ok || idx+bounceLookahead > n-1 {
			continue
		}
		eligible++

		for j := idx + 1; j <= idx+bounceLookahead; j++ {
			close := s.series[j].Close
			if level.Side == models.LevelSupport && close > t.Price {
				bounced++
				break
			}
			if level.Side == models.LevelResistance && close < t.Price {
				bounced++
				break
			}
		}
	}

	if eligible == 0 {
		return bounceBaseline
	}
	return float64(bounced) / float64(eligible)
}
