// Package yahoo fetches daily history and valuations from Yahoo Finance.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"golang.org/x/time/rate"

	"github.com/LNshuti/energy/internal/contracts"
	"github.com/LNshuti/energy/pkg/config"
	"github.com/LNshuti/energy/pkg/httputil"
	"github.com/LNshuti/energy/pkg/logger"
)

// ErrNotFound is returned when the provider has no data for a ticker
var ErrNotFound = errors.New("no data found")

const defaultChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Client handles communication with Yahoo Finance
// ⭐ SSOT: Yahoo Finance calls happen only in this client
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	chartURL   string
	limiter    *rate.Limiter

	// lookupEquity is equity.Get; replaced in tests
	lookupEquity func(symbol string) (*finance.Equity, error)
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	chartURL := cfg.ChartURL
	if chartURL == "" {
		chartURL = defaultChartURL
	}

	limit := rate.Inf
	burst := 1
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
		burst = cfg.RatePerSec
	}

	return &Client{
		httpClient:   httpClient,
		logger:       log.WithField("module", "yahoo"),
		chartURL:     chartURL,
		limiter:      rate.NewLimiter(limit, burst),
		lookupEquity: equity.Get,
	}
}

// chartResponse is the v8 chart payload; missing bars arrive as nulls
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchPrices returns daily bars between start and end, both inclusive
func (c *Client) FetchPrices(ctx context.Context, ticker string, start, end time.Time) (*contracts.PriceSeries, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	params.Set("interval", "1d")
	params.Set("events", "history")

	fullURL := fmt.Sprintf("%s/%s?%s", c.chartURL, url.PathEscape(ticker), params.Encode())

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"User-Agent": "Mozilla/5.0",
		"Accept":     "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	series, err := parseChart(ticker, body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":       ticker,
		"observations": series.Len(),
	}).Debug("Fetched daily prices")

	return series, nil
}

// parseChart turns a chart payload into a series, skipping null bars
func parseChart(ticker string, body []byte) (*contracts.PriceSeries, error) {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart: %w", err)
	}

	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ticker)
		}
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ticker)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	obs := make([]contracts.Observation, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closePrice := at(quote.Close, i)
		if closePrice <= 0 {
			continue
		}
		obs = append(obs, contracts.Observation{
			Date:   tradingDay(ts, result.Meta.GMTOffset),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  closePrice,
			Volume: int64(at(quote.Volume, i)),
		})
	}

	series, err := contracts.NewPriceSeries(ticker, obs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, ticker, err)
	}
	return series, nil
}

func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}

// tradingDay maps a bar timestamp to its exchange-local calendar day
func tradingDay(ts, gmtOffset int64) time.Time {
	local := time.Unix(ts+gmtOffset, 0).UTC()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// FetchMarketCap returns the current valuation; a missing figure is Unknown
func (c *Client) FetchMarketCap(ctx context.Context, ticker string) (contracts.MarketCap, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return contracts.UnknownMarketCap, fmt.Errorf("rate limit wait: %w", err)
	}

	eq, err := c.lookupEquity(ticker)
	if err != nil {
		return contracts.UnknownMarketCap, fmt.Errorf("equity lookup %s: %w", ticker, err)
	}
	if eq == nil || eq.MarketCap <= 0 {
		return contracts.UnknownMarketCap, nil
	}

	return contracts.MarketCapFromRaw(eq.MarketCap), nil
}
