// Package metrics provides Prometheus metrics export for the routing pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/attache-ai/attache/ai/routing"
)

// RouterMetrics exports routing telemetry in Prometheus format. It implements
// routing.MetricsRecorder.
type RouterMetrics struct {
	registry *prometheus.Registry

	decisions       *prometheus.CounterVec
	stageLatency    *prometheus.HistogramVec
	primaryFailures *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// Config configures the metrics exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default metrics configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}
}

// NewRouterMetrics creates a new routing metrics exporter.
func NewRouterMetrics(cfg Config) *RouterMetrics {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &RouterMetrics{registry: registry}

	m.decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "attache",
			Subsystem: "routing",
			Name:      "decisions_total",
			Help:      "Total number of routing decisions",
		},
		[]string{"stage", "agent", "confidence"},
	)

	m.stageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "attache",
			Subsystem: "routing",
			Name:      "decision_latency_seconds",
			Help:      "Routing decision latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"stage"},
	)

	m.primaryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "attache",
			Subsystem: "routing",
			Name:      "primary_failures_total",
			Help:      "Total number of primary classifier failures",
		},
		[]string{"reason"},
	)

	m.cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "attache",
			Subsystem: "routing",
			Name:      "cache_hits_total",
			Help:      "Total number of decision cache hits",
		},
	)

	m.cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "attache",
			Subsystem: "routing",
			Name:      "cache_misses_total",
			Help:      "Total number of decision cache misses",
		},
	)

	registry.MustRegister(
		m.decisions,
		m.stageLatency,
		m.primaryFailures,
		m.cacheHits,
		m.cacheMisses,
	)

	return m
}

// RecordDecision records one completed routing decision.
func (m *RouterMetrics) RecordDecision(stage routing.Stage, agent string, confidence routing.Confidence, duration time.Duration) {
	m.decisions.WithLabelValues(string(stage), agent, string(confidence)).Inc()
	m.stageLatency.WithLabelValues(string(stage)).Observe(duration.Seconds())
}

// RecordPrimaryFailure records a primary classifier failure by reason.
func (m *RouterMetrics) RecordPrimaryFailure(reason string) {
	m.primaryFailures.WithLabelValues(reason).Inc()
}

// RecordCacheLookup records a decision cache lookup.
func (m *RouterMetrics) RecordCacheLookup(hit bool) {
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// Handler returns the HTTP handler for the metrics endpoint.
func (m *RouterMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GetRegistry returns the Prometheus registry.
func (m *RouterMetrics) GetRegistry() *prometheus.Registry {
	return m.registry
}
