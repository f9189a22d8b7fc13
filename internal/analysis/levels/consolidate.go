package levels

import (
	"math"
	"sort"

	"sofr-analyzer/internal/models"
)

// consolidate merges near-duplicate candidate levels of one side into single
// levels. Candidates are sorted by price and grouped greedily: a candidate
// joins the running group when its price is within tolerance of the group's
// current mean, and the mean is recomputed as each member joins. The
// comparison basis therefore drifts with each admission; this single-pass
// drifting-mean grouping is kept deliberately (single-linkage along one
// dimension), not replaced by a clustering optimum.
//
// Merged levels are freshly allocated; the input candidates are discarded by
// the caller, never mutated in place.
func consolidate(candidates []*models.Level, side models.LevelSide, tolerance float64) []*models.Level {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]*models.Level, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	var out []*models.Level
	group := []*models.Level{sorted[0]}
	groupMean := sorted[0].Price

	for _, cand := range sorted[1:] {
		if math.Abs(cand.Price-groupMean) <= tolerance {
			group = append(group, cand)
			groupMean = meanPrice(group)
		} else {
			out = append(out, mergeGroup(group, side))
			group = []*models.Level{cand}
			groupMean = cand.Price
		}
	}
	out = append(out, mergeGroup(group, side))

	return out
}

func meanPrice(group []*models.Level) float64 {
	var sum float64
	for _, l := range group {
		sum += l.Price
	}
	return sum / float64(len(group))
}

// mergeGroup collapses one group into a single level: price is the
// strength-weighted average of member prices, touches are the chronological
// union of member touches. Baseline strength in excess of a member's touch
// count (volume-profile evidence) carries through the merge.
func mergeGroup(group []*models.Level, side models.LevelSide) *models.Level {
	if len(group) == 1 {
		single := group[0]
		merged := models.NewLevel(single.Price, side, single.Source)
		for _, t := range single.Touches {
			merged.AddTouch(t.Timestamp, t.Price, t.Volume)
		}
		merged.Strength += baselineExcess(single)
		return merged
	}

	var totalWeight, weightedSum float64
	for _, l := range group {
		w := float64(l.Strength)
		if w < 1 {
			w = 1
		}
		totalWeight += w
		weightedSum += l.Price * w
	}

	merged := models.NewLevel(weightedSum/totalWeight, side, "merged")

	var touches []models.Touch
	var excess int
	for _, l := range group {
		touches = append(touches, l.Touches...)
		excess += baselineExcess(l)
	}
	sort.SliceStable(touches, func(i, j int) bool {
		return touches[i].Timestamp.Before(touches[j].Timestamp)
	})
	for _, t := range touches {
		merged.AddTouch(t.Timestamp, t.Price, t.Volume)
	}
	merged.Strength += excess

	return merged
}

func baselineExcess(l *models.Level) int {
	excess := l.Strength - len(l.Touches)
	if excess < 0 {
		return 0
	}
	return excess
}
