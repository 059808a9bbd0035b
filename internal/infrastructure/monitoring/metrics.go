package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the theme service.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Engine metrics
	ParsesTotal      *prometheus.CounterVec
	ValidationsTotal *prometheus.CounterVec
	TransformsTotal  *prometheus.CounterVec

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec

	// Fetch metrics
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram

	// Asset metrics
	AssetCacheHits   prometheus.Counter
	AssetCacheMisses prometheus.Counter

	// Stored theme metrics
	ThemesStored prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry  *prometheus.Registry
	done      chan struct{}
	closeOnce sync.Once
}

// NewMetrics creates a metrics collector backed by its own registry so
// multiple instances (e.g. in tests) never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		registry:  reg,
		done:      make(chan struct{}),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "themed_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "themed_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		ParsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "themed_stylesheet_parses_total",
				Help: "Total number of stylesheet parse attempts",
			},
			[]string{"outcome"},
		),
		ValidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "themed_document_validations_total",
				Help: "Total number of document validations",
			},
			[]string{"outcome"},
		),
		TransformsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "themed_transforms_total",
				Help: "Total number of format transformations",
			},
			[]string{"format"},
		),

		ServiceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "themed_service_calls_total",
				Help: "Total number of service tool calls",
			},
			[]string{"service", "method", "status"},
		),
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "themed_service_duration_seconds",
				Help:    "Service tool call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"service", "method"},
		),

		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "themed_fetches_total",
				Help: "Total number of remote document fetches",
			},
			[]string{"status"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "themed_fetch_duration_seconds",
				Help:    "Remote fetch duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),

		AssetCacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "themed_asset_cache_hits_total",
				Help: "Total number of asset cache hits",
			},
		),
		AssetCacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "themed_asset_cache_misses_total",
				Help: "Total number of asset cache misses",
			},
		),

		ThemesStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "themed_themes_stored",
				Help: "Number of themes currently stored",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "themed_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// Handler returns the exposition handler for this collector's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Close stops the uptime ticker goroutine. Safe to call more than once.
func (m *Metrics) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Uptime.Set(time.Since(m.startTime).Seconds())
		case <-m.done:
			return
		}
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordParse records one stylesheet parse attempt.
func (m *Metrics) RecordParse(ok bool) {
	m.ParsesTotal.WithLabelValues(outcome(ok)).Inc()
}

// RecordValidation records one document validation.
func (m *Metrics) RecordValidation(ok bool) {
	m.ValidationsTotal.WithLabelValues(outcome(ok)).Inc()
}

// RecordTransform records one egress transformation by target format.
func (m *Metrics) RecordTransform(format string) {
	m.TransformsTotal.WithLabelValues(format).Inc()
}

// RecordServiceCall records a service tool call.
func (m *Metrics) RecordServiceCall(service, method, status string, duration time.Duration) {
	m.ServiceCalls.WithLabelValues(service, method, status).Inc()
	m.ServiceDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordFetch records a remote document fetch.
func (m *Metrics) RecordFetch(status string, duration time.Duration) {
	m.FetchesTotal.WithLabelValues(status).Inc()
	m.FetchDuration.Observe(duration.Seconds())
}

// SetThemesStored sets the stored theme gauge.
func (m *Metrics) SetThemesStored(count int) {
	m.ThemesStored.Set(float64(count))
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
