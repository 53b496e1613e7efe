package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the indicator gallery.
// A nil *Metrics is valid and records nothing, so components can be
// built without a registry in tests and CLI runs.
type Metrics struct {
	registry *prometheus.Registry

	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter
	CacheEntries   prometheus.Gauge

	FetchDuration prometheus.Histogram
	FetchFailures prometheus.Counter

	RenderDuration prometheus.Histogram
	ImagesRendered prometheus.Counter

	Requests *prometheus.CounterVec // labels: outcome
}

// Request outcomes
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation"
	OutcomeNoData     = "no_data"
	OutcomeError      = "error"
)

// New registers and returns all metrics on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "energy_cache_hits_total",
			Help: "Market data cache lookups served from a live entry",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "energy_cache_misses_total",
			Help: "Market data cache lookups that went to the data source",
		}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "energy_cache_evictions_total",
			Help: "Entries dropped because the cache was full",
		}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "energy_cache_entries",
			Help: "Entries currently held by the market data cache",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "energy_fetch_duration_seconds",
			Help:    "Latency of price and market cap fetches from the data source",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "energy_fetch_failures_total",
			Help: "Fetches that ended with no data (not found or transport error)",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "energy_render_duration_seconds",
			Help:    "Time spent rasterizing one indicator chart",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		ImagesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "energy_images_rendered_total",
			Help: "Indicator charts rendered",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "energy_gallery_requests_total",
			Help: "Gallery requests by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.CacheEvictions,
		m.CacheEntries,
		m.FetchDuration,
		m.FetchFailures,
		m.RenderDuration,
		m.ImagesRendered,
		m.Requests,
		collectors.NewGoCollector(),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CacheHit records a cache hit
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// CacheMiss records a cache miss
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// CacheEvicted records one capacity eviction
func (m *Metrics) CacheEvicted() {
	if m == nil {
		return
	}
	m.CacheEvictions.Inc()
}

// CacheSize sets the current entry count
func (m *Metrics) CacheSize(n int) {
	if m == nil {
		return
	}
	m.CacheEntries.Set(float64(n))
}

// ObserveFetch records one data-source round trip
func (m *Metrics) ObserveFetch(d time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
	if !ok {
		m.FetchFailures.Inc()
	}
}

// ObserveRender records one rendered chart
func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(d.Seconds())
	m.ImagesRendered.Inc()
}

// ObserveRequest counts a gallery request by outcome
func (m *Metrics) ObserveRequest(outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(outcome).Inc()
}
