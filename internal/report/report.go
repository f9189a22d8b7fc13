// Package report renders analysis results for the terminal and for export.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"sofr-analyzer/internal/analyzer"
	"sofr-analyzer/internal/config"
	"sofr-analyzer/internal/data"
	"sofr-analyzer/internal/models"
)

// Renderer writes the colored terminal report.
type Renderer struct {
	out         io.Writer
	strongLevel int
	specs       models.ContractSpecs
}

// NewRenderer creates a terminal report renderer.
func NewRenderer(out io.Writer, cfg *config.Config) *Renderer {
	return &Renderer{
		out:         out,
		strongLevel: cfg.Analysis.StrongLevel,
		specs: models.ContractSpecs{
			TickSize:     cfg.ContractSpecs.TickSize,
			TickValue:    cfg.ContractSpecs.TickValue,
			ContractSize: cfg.ContractSpecs.ContractSize,
		},
	}
}

// Render writes the full report for one contract.
func (r *Renderer) Render(res *analyzer.ContractAnalysis) {
	header := color.New(color.FgCyan, color.Bold)
	header.Fprintf(r.out, "\n=== %s SOFR Futures | Support & Resistance ===\n", res.Contract)

	fmt.Fprintf(r.out, "Price %.4f  (implied SOFR %.3f%%)  bars %d\n",
		res.Stats.CurrentPrice, data.ImpliedRate(res.Stats.CurrentPrice), res.Bars)

	r.renderStats(res.Stats)
	r.renderSide("RESISTANCE", res.Levels.Resistances, res.Stats.CurrentPrice)
	r.renderSide("SUPPORT", res.Levels.Supports, res.Stats.CurrentPrice)
	if res.Indicators != nil {
		r.renderIndicators(res)
	}
}

func (r *Renderer) renderStats(s models.Statistics) {
	if s.HasNearestSupport {
		fmt.Fprintf(r.out, "Nearest support    %.4f  (%.1f bps below)\n",
			s.NearestSupport, data.BasisPoints(s.SupportDistance))
	} else {
		color.New(color.FgYellow).Fprintln(r.out, "No support below current price")
	}
	if s.HasNearestResistance {
		fmt.Fprintf(r.out, "Nearest resistance %.4f  (%.1f bps above)\n",
			s.NearestResistance, data.BasisPoints(s.ResistanceDistance))
	}
	if s.HasTradingRange {
		fmt.Fprintf(r.out, "Trading range %.4f (%.1f bps), price at %.0f%% of range\n",
			s.TradingRange, data.BasisPoints(s.TradingRange), s.PositionInRange*100)
	}
}

func (r *Renderer) renderSide(title string, levels []*models.Level, currentPrice float64) {
	section := color.New(color.Bold)
	section.Fprintf(r.out, "\n%s\n", title)
	if len(levels) == 0 {
		fmt.Fprintln(r.out, "  (none)")
		return
	}

	fmt.Fprintf(r.out, "  %-9s %-8s %-8s %-7s %-6s %s\n",
		"price", "rate", "dist bps", "touches", "score", "status")
	for _, l := range levels {
		dist := data.BasisPoints(l.Price - currentPrice)
		line := fmt.Sprintf("  %-9.4f %-8.3f %+-8.1f %-7d %-6.2f %s",
			l.Price, data.ImpliedRate(l.Price), dist, l.Strength, l.StrengthScore, r.status(l))

		switch {
		case l.Strength >= r.strongLevel:
			color.New(color.FgGreen).Fprintln(r.out, line)
		default:
			fmt.Fprintln(r.out, line)
		}
	}
}

// status labels a level by the weight of its evidence.
func (r *Renderer) status(l *models.Level) string {
	var tags []string
	if l.Strength >= r.strongLevel {
		tags = append(tags, "STRONG")
	} else {
		tags = append(tags, "MODERATE")
	}
	if l.Source != "" && l.Source != "merged" {
		tags = append(tags, l.Source)
	}
	return strings.Join(tags, " ")
}

func (r *Renderer) renderIndicators(res *analyzer.ContractAnalysis) {
	ind := res.Indicators
	section := color.New(color.Bold)
	section.Fprintf(r.out, "\nINDICATORS\n")
	fmt.Fprintf(r.out, "  SMA20 %.4f  SMA50 %.4f  EMA9 %.4f  EMA21 %.4f\n",
		ind.SMA20, ind.SMA50, ind.EMA9, ind.EMA21)
	fmt.Fprintf(r.out, "  RSI14 %.1f  ROC10 %+.3f  ATR14 %.4f (%.1f bps, $%.0f/contract)\n",
		ind.RSI14, ind.ROC10, ind.ATR14, data.BasisPoints(ind.ATR14), data.TickValue(r.specs, ind.ATR14))
	fmt.Fprintf(r.out, "  BB %.4f / %.4f / %.4f  VWAP %.4f  VolMA20 %.0f\n",
		ind.BBLower, ind.BBMiddle, ind.BBUpper, ind.VWAP, ind.VolumeMA20)
}

// RenderAll renders every contract's report in sequence.
func (r *Renderer) RenderAll(results []*analyzer.ContractAnalysis) {
	for _, res := range results {
		r.Render(res)
	}
	fmt.Fprintln(r.out)
}
