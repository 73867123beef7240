// Package metrics provides Prometheus metrics for the scout explorer service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency buckets in milliseconds. Engine recomputation is expected to stay
// well under a few milliseconds for catalogs in the low thousands.
var defaultBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000, 5000}

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Catalog
	catalogLoads        *prometheus.CounterVec
	catalogLoadDuration prometheus.Histogram
	catalogPlayers      prometheus.Gauge
	catalogLastLoadUnix prometheus.Gauge
	coercionWarnings    *prometheus.CounterVec
	scoreFetchErrors    prometheus.Counter
	fixtureBatches      *prometheus.CounterVec

	// Engine
	classifyDuration prometheus.Histogram
	evaluateDuration prometheus.Histogram
	facetDuration    prometheus.Histogram
	visiblePlayers   prometheus.Histogram
	presetsApplied   *prometheus.CounterVec
	tagAssignments   *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scout",
		subsystem:        "explorer",
		histogramBuckets: defaultBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.catalogLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_loads_total",
		Help:      "Catalog load attempts by result",
	}, []string{"result"})

	m.catalogLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_load_duration_milliseconds",
		Help:      "Wall time of a full catalog load including fixtures and classification",
		Buckets:   m.histogramBuckets,
	})

	m.catalogPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_players",
		Help:      "Number of players in the active catalog snapshot",
	})

	m.catalogLastLoadUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_last_load_unixtime",
		Help:      "Unix time of the last successful catalog load",
	})

	m.coercionWarnings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "coercion_warnings_total",
		Help:      "Malformed raw fields coerced to defaults, by field",
	}, []string{"field"})

	m.scoreFetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_fetch_errors_total",
		Help:      "Score source reads that failed and left scores at zero",
	})

	m.fixtureBatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fixture_batches_total",
		Help:      "Fixture difficulty batches by result",
	}, []string{"result"})

	m.classifyDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classify_duration_milliseconds",
		Help:      "Time to build the classification cache",
		Buckets:   m.histogramBuckets,
	})

	m.evaluateDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluate_duration_milliseconds",
		Help:      "Time to filter and sort the catalog for one view",
		Buckets:   m.histogramBuckets,
	})

	m.facetDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "facet_duration_milliseconds",
		Help:      "Time to compute leave-one-out facet counts for one view",
		Buckets:   m.histogramBuckets,
	})

	m.visiblePlayers = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visible_players",
		Help:      "Number of players left visible after filtering",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	m.presetsApplied = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "presets_applied_total",
		Help:      "Preset applications by preset id",
	}, []string{"preset"})

	m.tagAssignments = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tag_assignments",
		Help:      "Players carrying each smart tag in the active snapshot",
	}, []string{"tag"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Heap bytes allocated",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Average GC pause in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Catalog

// RecordCatalogLoad counts a load attempt; result is "success" or "failure".
func RecordCatalogLoad(result string) {
	if globalManager.enabled {
		globalManager.catalogLoads.WithLabelValues(result).Inc()
	}
}

// RecordCatalogLoadDuration observes the total catalog load time.
func RecordCatalogLoadDuration(ms float64) {
	if globalManager.enabled {
		globalManager.catalogLoadDuration.Observe(ms)
	}
}

// UpdateCatalogPlayers sets the active snapshot size.
func UpdateCatalogPlayers(count int) {
	if globalManager.enabled {
		globalManager.catalogPlayers.Set(float64(count))
	}
}

// UpdateCatalogLastLoad records the unix time of the last successful load.
func UpdateCatalogLastLoad(unix int64) {
	if globalManager.enabled {
		globalManager.catalogLastLoadUnix.Set(float64(unix))
	}
}

// RecordCoercionWarning counts one malformed field.
func RecordCoercionWarning(field string) {
	if globalManager.enabled {
		globalManager.coercionWarnings.WithLabelValues(field).Inc()
	}
}

// RecordScoreFetchError counts a failed score read.
func RecordScoreFetchError() {
	if globalManager.enabled {
		globalManager.scoreFetchErrors.Inc()
	}
}

// RecordFixtureBatch counts a fixture batch; result is "success" or "failure".
func RecordFixtureBatch(result string) {
	if globalManager.enabled {
		globalManager.fixtureBatches.WithLabelValues(result).Inc()
	}
}

// Engine

// RecordClassifyDuration observes a classification cache build.
func RecordClassifyDuration(ms float64) {
	if globalManager.enabled {
		globalManager.classifyDuration.Observe(ms)
	}
}

// RecordEvaluateDuration observes one filter+sort pass.
func RecordEvaluateDuration(ms float64) {
	if globalManager.enabled {
		globalManager.evaluateDuration.Observe(ms)
	}
}

// RecordFacetDuration observes one facet count pass.
func RecordFacetDuration(ms float64) {
	if globalManager.enabled {
		globalManager.facetDuration.Observe(ms)
	}
}

// RecordVisiblePlayers observes the size of a filtered result.
func RecordVisiblePlayers(count int) {
	if globalManager.enabled {
		globalManager.visiblePlayers.Observe(float64(count))
	}
}

// RecordPresetApplied counts a preset application.
func RecordPresetApplied(id string) {
	if globalManager.enabled {
		globalManager.presetsApplied.WithLabelValues(id).Inc()
	}
}

// UpdateTagAssignments replaces the per-tag gauge values.
func UpdateTagAssignments(counts map[string]int) {
	if !globalManager.enabled {
		return
	}
	globalManager.tagAssignments.Reset()
	for tag, n := range counts {
		globalManager.tagAssignments.WithLabelValues(tag).Set(float64(n))
	}
}

// HTTP

// RecordHTTPRequest counts a served request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes request latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByEndpoint counts an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// System

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the registry every collector is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
