package eodhd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/config"
	"github.com/sonwamoh/perfomance-attribution/date"
)

var payloads = map[string]string{
	"/eod/AAPL.US": `[
  {"date": "2020-08-28", "open": 504.05, "high": 505.77, "low": 498.31, "close": 499.23, "adjusted_close": 122.8, "volume": 46907479},
  {"date": "2020-08-31", "open": 127.58, "high": 131.0, "low": 126.0, "close": 129.04, "adjusted_close": 126.9, "volume": 225702700},
  {"date": "2020-08-07", "open": 452.82, "high": 454.7, "low": 441.17, "close": 444.45, "adjusted_close": 109.3, "volume": 49511403}
]`,
	"/div/AAPL.US":     `[{"date": "2020-08-07", "value": 0.205, "currency": "USD"}, {"date": "2020-08-08", "value": 1}]`,
	"/splits/AAPL.US":  `[{"date": "2020-08-31", "split": "4.000000/1.000000"}]`,
	"/eod/EMPTY.US":    `[]`,
	"/div/EMPTY.US":    `[]`,
	"/splits/EMPTY.US": `[]`,
	"/eod/BAD.US":      `[{"date": "2020-08-31", "close": 1}]`,
	"/div/BAD.US":      `[]`,
	"/splits/BAD.US":   `[{"date": "2020-08-31", "split": "4:1"}]`,
}

func newTestClient(t *testing.T) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_token"))
		body, ok := payloads[r.URL.Path]
		if !ok {
			http.Error(w, "Ticker Not Found.", http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c := New(config.EODHDConfig{
		APIKey:            "test-key",
		BaseURL:           srv.URL + "/",
		RequestsPerMinute: 6000,
		Timeout:           5 * time.Second,
		CacheDir:          t.TempDir(),
	}, nil)
	return c, &calls
}

func TestClient_Prices(t *testing.T) {
	c, calls := newTestClient(t)

	points, err := c.Prices(context.Background(), "AAPL.US")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.EqualValues(t, 3, calls.Load())

	assert.Equal(t, date.New(2020, time.August, 7), points[0].Date)
	assert.Equal(t, date.New(2020, time.August, 31), points[2].Date)

	first := points[0]
	assert.Equal(t, "AAPL.US", first.Instrument)
	assert.Equal(t, 444.45, first.Close)
	assert.Equal(t, 109.3, first.Price())
	assert.Equal(t, 0.205, first.Dividend)
	assert.Equal(t, 1.0, first.SplitFactor)

	assert.Equal(t, 0.0, points[1].Dividend)
	assert.Equal(t, 4.0, points[2].SplitFactor)

	// Second read is served from the disk cache.
	_, err = c.Prices(context.Background(), "AAPL.US")
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_Unavailable(t *testing.T) {
	c, _ := newTestClient(t)

	for _, ticker := range []string{"NOPE.US", "EMPTY.US"} {
		_, err := c.Prices(context.Background(), ticker)
		var unavailable *attribution.PriceUnavailableError
		require.True(t, errors.As(err, &unavailable), ticker)
		assert.Equal(t, ticker, unavailable.Instrument)
	}
}

func TestClient_InvalidSplit(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Prices(context.Background(), "BAD.US")
	assert.ErrorContains(t, err, "invalid split")
}

func TestClient_MissingKey(t *testing.T) {
	c := New(config.EODHDConfig{BaseURL: "http://localhost:1"}, nil)
	_, err := c.Prices(context.Background(), "AAPL.US")
	assert.ErrorContains(t, err, "api key")
}

func TestParseSplit(t *testing.T) {
	tests := []struct {
		ratio string
		want  float64
		fails bool
	}{
		{"2.000000/1.000000", 2, false},
		{"1/4", 0.25, false},
		{"3 / 2", 1.5, false},
		{"4:1", 0, true},
		{"x/1", 0, true},
		{"1/0", 0, true},
	}
	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.ratio, "/", "_"), func(t *testing.T) {
			got, err := parseSplit(tt.ratio)
			if tt.fails {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
