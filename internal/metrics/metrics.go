package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for rejected or failed predictions.
const (
	OutcomeMalformed    = "malformed"
	OutcomeInvalidInput = "invalid_input"
	OutcomeModelError   = "model_error"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "churn",
			Name:      "predictions_total",
			Help:      "Profiles scored, by predicted label and channel.",
		}, []string{"label", "channel"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "churn",
			Name:      "prediction_failures_total",
			Help:      "Prediction requests that were rejected or failed.",
		}, []string{"outcome", "channel"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "churn",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent building the feature row and scoring it.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"channel"}),
	}
	m.registry.MustRegister(
		m.predictions,
		m.failures,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObservePrediction(channel, label string, elapsed time.Duration) {
	m.predictions.WithLabelValues(label, channel).Inc()
	m.latency.WithLabelValues(channel).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFailure(channel, outcome string) {
	m.failures.WithLabelValues(outcome, channel).Inc()
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
