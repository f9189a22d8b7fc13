package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"sofr-analyzer/internal/apperrors"
	"sofr-analyzer/internal/models"
)

// defaultTickerMapping maps contract codes to CME Globex tickers as quoted
// on Yahoo Finance (three-month SOFR futures, SR3).
var defaultTickerMapping = map[string]string{
	"MAR26": "SR3H26.CME",
	"JUN26": "SR3M26.CME",
	"SEP26": "SR3U26.CME",
	"DEC26": "SR3Z26.CME",
}

// YahooProvider fetches daily bars from the Yahoo Finance v8 chart API.
type YahooProvider struct {
	client    *http.Client
	tickerMap map[string]string
	log       zerolog.Logger
}

// NewYahooProvider creates a Yahoo Finance provider. Entries in tickerMap
// override the default contract-to-ticker mapping.
func NewYahooProvider(tickerMap map[string]string, logger zerolog.Logger) *YahooProvider {
	merged := make(map[string]string, len(defaultTickerMapping)+len(tickerMap))
	for k, v := range defaultTickerMapping {
		merged[k] = v
	}
	for k, v := range tickerMap {
		merged[k] = v
	}
	return &YahooProvider{
		client:    &http.Client{Timeout: 30 * time.Second},
		tickerMap: merged,
		log:       logger,
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) ticker(contract models.Contract) string {
	if mapped, ok := p.tickerMap[string(contract)]; ok {
		return mapped
	}
	return string(contract)
}

// yahooChart is the response structure of the chart API. Price arrays carry
// nulls on holidays, hence interface{} elements.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// yahooRange maps a day count onto the coarse range buckets the chart API
// accepts.
func yahooRange(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

// GetBars fetches daily bars and trims to the trailing lookbackDays.
func (p *YahooProvider) GetBars(ctx context.Context, contract models.Contract, lookbackDays int) ([]models.Bar, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=%s",
		url.PathEscape(p.ticker(contract)), yahooRange(lookbackDays))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperrors.NewDataError(p.Name(), string(contract), "building request", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.NewDataError(p.Name(), string(contract), "fetching chart", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewDataError(p.Name(), string(contract), "reading response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewDataError(p.Name(), string(contract),
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, apperrors.NewDataError(p.Name(), string(contract), "decoding response", err)
	}
	if chart.Chart.Error != nil {
		return nil, apperrors.NewDataError(p.Name(), string(contract), chart.Chart.Error.Description, nil)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, apperrors.NewDataError(p.Name(), string(contract), "no data returned", apperrors.ErrDataNotFound)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, apperrors.NewDataError(p.Name(), string(contract), "no quote data", apperrors.ErrDataNotFound)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]models.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		o, h, l, c := toFloat(quote.Open[i]), toFloat(quote.High[i]), toFloat(quote.Low[i]), toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bar (holiday)
		}
		var vol int64
		if i < len(quote.Volume) {
			vol = int64(toFloat(quote.Volume[i]))
		}
		bars = append(bars, models.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    vol,
		})
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	if lookbackDays > 0 && len(bars) > lookbackDays {
		bars = bars[len(bars)-lookbackDays:]
	}

	p.log.Debug().Str("contract", string(contract)).Int("bars", len(bars)).Msg("fetched yahoo bars")
	return bars, nil
}
