// Package eodhd reads daily prices, dividends and splits from the EOD
// Historical Data API.
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/config"
	"github.com/sonwamoh/perfomance-attribution/date"
	"github.com/sonwamoh/perfomance-attribution/logger"
	"github.com/sonwamoh/perfomance-attribution/transport"
)

// Client is an attribution.PriceSource over the eod, div and splits
// endpoints. Tickers use the EODHD format "SYMBOL.EXCHANGE", e.g. MARUTI.BSE.
type Client struct {
	cfg    config.EODHDConfig
	client *http.Client
	logger *zap.Logger
}

// New returns a client configured by cfg. A nil logger discards logs.
func New(cfg config.EODHDConfig, l *zap.Logger) *Client {
	l = logger.OrNop(l).Named("eodhd")
	return &Client{
		cfg: cfg,
		client: transport.NewClient(transport.Options{
			Name:              "eodhd",
			RequestsPerMinute: cfg.RequestsPerMinute,
			Timeout:           cfg.Timeout,
			CacheDir:          cfg.CacheDir,
			Logger:            l,
		}),
		logger: l,
	}
}

// bar is one item of /api/eod/{ticker}.
//
//	{
//		"date": "2024-02-13",
//		"open": 675.066,
//		"high": 684.219,
//		"low": 648.659,
//		"close": 668.445,
//		"adjusted_close": 67.705,
//		"volume": 0
//	}
type bar struct {
	Date          date.Date `json:"date"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	AdjustedClose float64   `json:"adjusted_close"`
	Volume        float64   `json:"volume"`
}

type dividend struct {
	Date  date.Date       `json:"date"` // ex-dividend date
	Value decimal.Decimal `json:"value"`
}

type split struct {
	Date  date.Date `json:"date"`
	Split string    `json:"split"` // e.g. "2.000000/1.000000"
}

// Prices implements attribution.PriceSource. It returns the full daily
// history of instrument, oldest first, with dividends and split factors set
// on their ex-dates.
func (c *Client) Prices(ctx context.Context, instrument string) ([]attribution.PricePoint, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New("eodhd: missing api key")
	}

	var bars []bar
	if err := c.get(ctx, "eod", instrument, &bars); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, &attribution.PriceUnavailableError{Instrument: instrument}
	}
	var divs []dividend
	if err := c.get(ctx, "div", instrument, &divs); err != nil {
		return nil, err
	}
	var splits []split
	if err := c.get(ctx, "splits", instrument, &splits); err != nil {
		return nil, err
	}

	points := make([]attribution.PricePoint, 0, len(bars))
	index := make(map[date.Date]int, len(bars))
	for _, b := range bars {
		index[b.Date] = len(points)
		points = append(points, attribution.PricePoint{
			Instrument:  instrument,
			Date:        b.Date,
			Open:        b.Open,
			High:        b.High,
			Low:         b.Low,
			Close:       b.Close,
			AdjClose:    b.AdjustedClose,
			Volume:      b.Volume,
			SplitFactor: 1,
		})
	}
	for _, d := range divs {
		i, ok := index[d.Date]
		if !ok {
			c.logger.Debug("dividend outside trading days", zap.String("instrument", instrument), zap.Stringer("date", d.Date))
			continue
		}
		points[i].Dividend = d.Value.InexactFloat64()
	}
	for _, s := range splits {
		factor, err := parseSplit(s.Split)
		if err != nil {
			return nil, fmt.Errorf("invalid split of %q on %s: %w", instrument, s.Date, err)
		}
		i, ok := index[s.Date]
		if !ok {
			c.logger.Debug("split outside trading days", zap.String("instrument", instrument), zap.Stringer("date", s.Date))
			continue
		}
		points[i].SplitFactor = factor
	}

	slices.SortFunc(points, func(a, b attribution.PricePoint) int { return a.Date.Compare(b.Date) })
	c.logger.Info("prices fetched", zap.String("instrument", instrument), zap.Int("points", len(points)),
		zap.Int("dividends", len(divs)), zap.Int("splits", len(splits)))
	return points, nil
}

// get reads the JSON array of endpoint for ticker into data. An unknown
// ticker is reported as a *attribution.PriceUnavailableError.
func (c *Client) get(ctx context.Context, endpoint, ticker string, data any) error {
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("api_token", c.cfg.APIKey)
	addr := fmt.Sprintf("%s/%s/%s?%s", strings.TrimSuffix(c.cfg.BaseURL, "/"), endpoint, url.PathEscape(ticker), q.Encode())

	err := transport.GetJSON(ctx, c.client, addr, data)
	var status *transport.StatusError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &status) && status.Status == http.StatusNotFound:
		return &attribution.PriceUnavailableError{Instrument: ticker, Err: err}
	default:
		return fmt.Errorf("cannot read %s of %q: %w", endpoint, ticker, err)
	}
}

// parseSplit converts a "new/old" share ratio into a multiplicative factor.
func parseSplit(ratio string) (float64, error) {
	parts := strings.Split(ratio, "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("want num/den, got %q", ratio)
	}
	num, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid numerator in %q: %w", ratio, err)
	}
	den, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid denominator in %q: %w", ratio, err)
	}
	if !den.IsPositive() || !num.IsPositive() {
		return 0, fmt.Errorf("non positive ratio %q", ratio)
	}
	return num.Div(den).InexactFloat64(), nil
}

var _ attribution.PriceSource = (*Client)(nil)
