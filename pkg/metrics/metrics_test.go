package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.CacheHit()
		m.CacheMiss()
		m.CacheEvicted()
		m.CacheSize(3)
		m.ObserveFetch(time.Second, false)
		m.ObserveRender(time.Millisecond)
		m.ObserveRequest(OutcomeOK)
	})
}

func TestCounters(t *testing.T) {
	m := New()

	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()
	m.CacheSize(7)
	m.ObserveFetch(200*time.Millisecond, false)
	m.ObserveFetch(100*time.Millisecond, true)
	m.ObserveRequest(OutcomeValidation)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.CacheEntries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(OutcomeValidation)))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRender(50 * time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "energy_images_rendered_total 1")
}
