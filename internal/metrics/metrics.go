package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records service activity
type Collector interface {
	RecordDraw(ctx context.Context, spreadKind string)
	RecordInterpretation(ctx context.Context, status string, d time.Duration)
	RecordHistoryError(ctx context.Context, operation string)
}

// PrometheusCollector provides Prometheus metrics on a private registry
type PrometheusCollector struct {
	drawsTotal           *prometheus.CounterVec
	interpretationsTotal *prometheus.CounterVec
	interpretDuration    prometheus.Histogram
	historyErrorsTotal   *prometheus.CounterVec
	registry             *prometheus.Registry
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *PrometheusCollector {
	registry := prometheus.NewRegistry()

	drawsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taromancer_draws_total",
			Help: "Total number of spreads drawn by spread type",
		},
		[]string{"spread"},
	)

	interpretationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taromancer_interpretations_total",
			Help: "Total number of interpretation requests by status",
		},
		[]string{"status"},
	)

	interpretDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taromancer_interpretation_duration_seconds",
			Help:    "Duration of language model interpretation calls",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	historyErrorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taromancer_history_errors_total",
			Help: "Total number of history store failures by operation",
		},
		[]string{"operation"},
	)

	registry.MustRegister(drawsTotal)
	registry.MustRegister(interpretationsTotal)
	registry.MustRegister(interpretDuration)
	registry.MustRegister(historyErrorsTotal)

	return &PrometheusCollector{
		drawsTotal:           drawsTotal,
		interpretationsTotal: interpretationsTotal,
		interpretDuration:    interpretDuration,
		historyErrorsTotal:   historyErrorsTotal,
		registry:             registry,
	}
}

func (m *PrometheusCollector) RecordDraw(_ context.Context, spreadKind string) {
	m.drawsTotal.WithLabelValues(spreadKind).Inc()
}

// RecordInterpretation counts a finished interpretation call and observes its latency
func (m *PrometheusCollector) RecordInterpretation(_ context.Context, status string, d time.Duration) {
	m.interpretationsTotal.WithLabelValues(status).Inc()
	m.interpretDuration.Observe(d.Seconds())
}

func (m *PrometheusCollector) RecordHistoryError(_ context.Context, operation string) {
	m.historyErrorsTotal.WithLabelValues(operation).Inc()
}

// Registry returns the Prometheus registry for HTTP exposure
func (m *PrometheusCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Noop discards everything
type Noop struct{}

func (Noop) RecordDraw(context.Context, string) {}
func (Noop) RecordInterpretation(context.Context, string, time.Duration) {}
func (Noop) RecordHistoryError(context.Context, string) {}
