package levels

import (
	"math"
	"sort"

	"sofr-analyzer/internal/config"
	"sofr-analyzer/internal/models"
)

// volumeTopK is the number of highest-volume bins promoted to levels.
const volumeTopK = 10

// volumeBaselineStrength substitutes for touch-count evidence on
// volume-profile levels, which carry no discrete touch list.
const volumeBaselineStrength = 2

// findVolumeLevels builds a volume-by-price histogram and promotes the
// highest-volume bins to candidate levels: price zones with heavy historical
// activity that traders tend to defend. Each bar's volume is spread evenly
// across every bin its [Low, High] range touches. Degenerate inputs (zero
// price range, zero traded volume) yield no candidates.
func findVolumeLevels(series []models.Bar, stats seriesStats, cfg config.VolumeProfileConfig) (supports, resistances []*models.Level) {
	if !cfg.Enabled {
		return nil, nil
	}

	priceRange := stats.maxHigh - stats.minLow
	if priceRange <= 0 {
		return nil, nil
	}
	binSize := priceRange / float64(cfg.Bins)

	profile := make(map[float64]float64)
	for _, b := range series {
		dayRange := b.High - b.Low
		if dayRange <= 0 || b.Volume == 0 {
			continue
		}

		binsTouched := int(dayRange/binSize) + 1
		volumePerBin := float64(b.Volume) / float64(binsTouched)

		for price := b.Low; price <= b.High; price += binSize {
			key := math.Round(price/binSize) * binSize
			profile[key] += volumePerBin
		}
	}
	if len(profile) == 0 {
		return nil, nil
	}

	type node struct {
		price  float64
		volume float64
	}
	nodes := make([]node, 0, len(profile))
	for price, vol := range profile {
		nodes = append(nodes, node{price: price, volume: vol})
	}
	// Price ascending as secondary key keeps the selection deterministic.
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].volume != nodes[j].volume {
			return nodes[i].volume > nodes[j].volume
		}
		return nodes[i].price < nodes[j].price
	})

	topK := volumeTopK
	if len(nodes) < topK {
		topK = len(nodes)
	}

	for _, n := range nodes[:topK] {
		if n.price < stats.currentPrice {
			level := models.NewLevel(n.price, models.LevelSupport, "volume")
			level.Strength = volumeBaselineStrength
			supports = append(supports, level)
		} else {
			level := models.NewLevel(n.price, models.LevelResistance, "volume")
			level.Strength = volumeBaselineStrength
			resistances = append(resistances, level)
		}
	}

	return supports, resistances
}
