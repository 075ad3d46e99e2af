package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/config"
	"github.com/sonwamoh/perfomance-attribution/date"
)

const dailyPayload = `{
  "Meta Data": {"2. Symbol": "MARUTI.BSE"},
  "Time Series (Daily)": {
    "2023-01-04": {"1. open": "8420.0000", "2. high": "8480.0000", "3. low": "8391.0500", "4. close": "8422.0000",
      "5. adjusted close": "8422.0000", "6. volume": "12873", "7. dividend amount": "0.0000", "8. split coefficient": "1.0"},
    "2023-01-02": {"1. open": "8400.0000", "2. high": "8450.0000", "3. low": "8380.0000", "4. close": "8407.0000",
      "5. adjusted close": "8300.5000", "6. volume": "10021", "7. dividend amount": "0.0000", "8. split coefficient": "1.0"}
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	c := New(config.AlphaVantageConfig{
		APIKey:            "demo",
		BaseURL:           srv.URL,
		RequestsPerMinute: 6000,
		Timeout:           5 * time.Second,
		CacheDir:          t.TempDir(),
	}, nil)
	return c, &calls
}

func TestClient_Prices(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY_ADJUSTED", r.URL.Query().Get("function"))
		assert.Equal(t, "MARUTI.BSE", r.URL.Query().Get("symbol"))
		assert.Equal(t, "full", r.URL.Query().Get("outputsize"))
		assert.Equal(t, "demo", r.URL.Query().Get("apikey"))
		w.Write([]byte(dailyPayload))
	})

	points, err := c.Prices(context.Background(), "MARUTI.BSE")
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, date.New(2023, time.January, 2), points[0].Date)
	assert.Equal(t, date.New(2023, time.January, 4), points[1].Date)
	assert.Equal(t, "MARUTI.BSE", points[0].Instrument)
	assert.Equal(t, 8407.0, points[0].Close)
	assert.Equal(t, 8300.5, points[0].AdjClose)
	assert.Equal(t, 8300.5, points[0].Price())
	assert.Equal(t, 12873.0, points[1].Volume)
	assert.Equal(t, 1.0, points[1].SplitFactor)
}

func TestClient_CachedForTheDay(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(dailyPayload))
	})

	for range 3 {
		_, err := c.Prices(context.Background(), "MARUTI.BSE")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_UnknownSymbol(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := c.Prices(context.Background(), "NOPE.BSE")
	var unavailable *attribution.PriceUnavailableError
	require.True(t, errors.As(err, &unavailable), "got %v", err)
	assert.Equal(t, "NOPE.BSE", unavailable.Instrument)

	// error payloads are not cached
	_, _ = c.Prices(context.Background(), "NOPE.BSE")
	assert.EqualValues(t, 2, calls.Load())
}

func TestClient_Throttled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
	})

	_, err := c.Prices(context.Background(), "MARUTI.BSE")
	require.Error(t, err)
	var unavailable *attribution.PriceUnavailableError
	assert.False(t, errors.As(err, &unavailable))
	assert.Contains(t, err.Error(), "call frequency")
}

func TestClient_HTTPError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.Prices(context.Background(), "MARUTI.BSE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_MissingKey(t *testing.T) {
	c := New(config.AlphaVantageConfig{BaseURL: "http://127.0.0.1:0"}, nil)
	_, err := c.Prices(context.Background(), "MARUTI.BSE")
	assert.ErrorContains(t, err, "api key")
}
