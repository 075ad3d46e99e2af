package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("POST", "/link", 200, 10*time.Millisecond)
	m.ObserveRequest("POST", "/link", 200, 20*time.Millisecond)
	m.ObserveRequest("POST", "/link", 400, time.Millisecond)
	m.Fetch(nil, time.Second)
	m.Fetch(errors.New("boom"), time.Second)
	m.Cache("memory", true)
	m.Cache("memory", false)
	m.Cache("memory", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/link", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/link", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheTotal.WithLabelValues("memory", "miss")))

	n, err := testutil.GatherAndCount(reg, "attr_http_request_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/healthz", 200, time.Millisecond)
		m.Fetch(nil, time.Second)
		m.Cache("store", true)
	})
}
