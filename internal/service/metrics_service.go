package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/noah-isme/sma-conflict-api/internal/models"
)

// Metrics collects engine-level counters. All methods are nil-safe so
// services can run without a registry in tests.
type Metrics struct {
	registry *prometheus.Registry

	detectionRuns        prometheus.Counter
	detectionDuration    prometheus.Histogram
	conflictsDetected    *prometheus.CounterVec
	suggestionsGenerated prometheus.Counter
	resolutionsApplied   *prometheus.CounterVec
	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
}

// NewMetrics registers the engine collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		detectionRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "conflict_detection_runs_total",
			Help: "Number of full detection passes executed.",
		}),
		detectionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "conflict_detection_duration_seconds",
			Help:    "Wall time of a full detection pass.",
			Buckets: prometheus.DefBuckets,
		}),
		conflictsDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "conflicts_detected_total",
			Help: "Conflicts found, labelled by category.",
		}, []string{"type"}),
		suggestionsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "resolution_suggestions_generated_total",
			Help: "Resolution suggestions produced.",
		}),
		resolutionsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resolutions_applied_total",
			Help: "Resolutions applied, labelled by mode.",
		}, []string{"mode"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests, labelled by method, route and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// ObserveHTTPRequest records one handled HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry for the metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveDetection records one detection pass and its findings.
func (m *Metrics) ObserveDetection(elapsed time.Duration, conflicts []models.Conflict) {
	if m == nil {
		return
	}
	m.detectionRuns.Inc()
	m.detectionDuration.Observe(elapsed.Seconds())
	for _, c := range conflicts {
		m.conflictsDetected.WithLabelValues(string(c.Type)).Inc()
	}
}

// SuggestionsGenerated records produced suggestions.
func (m *Metrics) SuggestionsGenerated(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.suggestionsGenerated.Add(float64(count))
}

// ResolutionApplied records one applied resolution.
func (m *Metrics) ResolutionApplied(auto bool) {
	if m == nil {
		return
	}
	mode := "manual"
	if auto {
		mode = "auto"
	}
	m.resolutionsApplied.WithLabelValues(mode).Inc()
}
