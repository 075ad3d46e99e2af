// Package alphavantage reads daily adjusted prices from the Alpha Vantage API.
package alphavantage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/config"
	"github.com/sonwamoh/perfomance-attribution/date"
	"github.com/sonwamoh/perfomance-attribution/logger"
	"github.com/sonwamoh/perfomance-attribution/transport"
)

const seriesKey = "Time Series (Daily)"

// Client is an attribution.PriceSource over TIME_SERIES_DAILY_ADJUSTED.
//
// Requests are throttled to cfg.RequestsPerMinute. When cfg.CacheDir is set,
// successful responses are kept on disk for the day.
type Client struct {
	cfg    config.AlphaVantageConfig
	client *http.Client
	logger *zap.Logger
}

// New returns a client configured by cfg. A nil logger discards logs.
func New(cfg config.AlphaVantageConfig, l *zap.Logger) *Client {
	l = logger.OrNop(l).Named("alphavantage")
	return &Client{
		cfg: cfg,
		client: transport.NewClient(transport.Options{
			Name:              "alphavantage",
			RequestsPerMinute: cfg.RequestsPerMinute,
			Timeout:           cfg.Timeout,
			CacheDir:          cfg.CacheDir,
			Keep:              func(content []byte) bool { return bytes.Contains(content, []byte(seriesKey)) },
			Logger:            l,
		}),
		logger: l,
	}
}

// Prices implements attribution.PriceSource. It returns the full daily
// history of instrument, oldest first.
func (c *Client) Prices(ctx context.Context, instrument string) ([]attribution.PricePoint, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New("alphavantage: missing api key")
	}
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	q.Set("symbol", instrument)
	q.Set("outputsize", "full")
	q.Set("apikey", c.cfg.APIKey)
	addr := c.cfg.BaseURL + "?" + q.Encode()

	var jobj any
	if err := transport.GetJSON(ctx, c.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("cannot read prices of %q: %w", instrument, err)
	}

	points, err := decodeSeries(instrument, jobj)
	if err != nil {
		return nil, err
	}
	c.logger.Info("prices fetched", zap.String("instrument", instrument), zap.Int("points", len(points)))
	return points, nil
}

// decodeSeries reads the daily series out of a decoded payload.
//
//	{
//	  "Meta Data": {...},
//	  "Time Series (Daily)": {
//	    "2023-01-04": {
//	      "1. open": "8420.0000",
//	      "2. high": "8480.0000",
//	      "3. low": "8391.0500",
//	      "4. close": "8422.0000",
//	      "5. adjusted close": "8422.0000",
//	      "6. volume": "12873",
//	      "7. dividend amount": "0.0000",
//	      "8. split coefficient": "1.0"
//	    }, ...
func decodeSeries(instrument string, jobj any) ([]attribution.PricePoint, error) {
	jval, err := jsonpath.Get(`$["`+seriesKey+`"]`, jobj)
	if err != nil {
		// The API answers 200 with a message instead of the series.
		if msg, ok := message(jobj, "Error Message"); ok {
			return nil, &attribution.PriceUnavailableError{Instrument: instrument, Err: errors.New(msg)}
		}
		for _, key := range []string{"Note", "Information"} {
			if msg, ok := message(jobj, key); ok {
				return nil, fmt.Errorf("alphavantage refused %q: %s", instrument, msg)
			}
		}
		return nil, &attribution.PriceUnavailableError{Instrument: instrument, Err: err}
	}
	series, ok := jval.(map[string]any)
	if !ok || len(series) == 0 {
		return nil, &attribution.PriceUnavailableError{Instrument: instrument}
	}

	points := make([]attribution.PricePoint, 0, len(series))
	for day, jfields := range series {
		on, err := date.Parse(day)
		if err != nil {
			return nil, fmt.Errorf("invalid series of %q: %w", instrument, err)
		}
		fields, _ := jfields.(map[string]any)
		p := attribution.PricePoint{Instrument: instrument, Date: on}
		for key, dst := range map[string]*float64{
			"1. open": &p.Open, "2. high": &p.High, "3. low": &p.Low, "4. close": &p.Close,
			"5. adjusted close": &p.AdjClose, "6. volume": &p.Volume,
			"7. dividend amount": &p.Dividend, "8. split coefficient": &p.SplitFactor,
		} {
			s, _ := fields[key].(string)
			if *dst, err = attribution.ParseNumber(s); err != nil {
				return nil, fmt.Errorf("invalid %q of %q on %s: %w", key, instrument, on, err)
			}
		}
		points = append(points, p)
	}
	slices.SortFunc(points, func(a, b attribution.PricePoint) int { return a.Date.Compare(b.Date) })
	return points, nil
}

// message returns the string at key in a payload.
func message(jobj any, key string) (string, bool) {
	jval, err := jsonpath.Get(`$["`+key+`"]`, jobj)
	if err != nil {
		return "", false
	}
	msg, ok := jval.(string)
	return msg, ok
}

var _ attribution.PriceSource = (*Client)(nil)
