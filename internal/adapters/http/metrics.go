package http

import (
	"net/http"

	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the provisioning collectors on a private registry, so
// tests and repeated runs never fight over the global one.
type Metrics struct {
	registry *prometheus.Registry

	stepsTotal    *prometheus.CounterVec
	stepDuration  prometheus.Histogram
	downloadBytes prometheus.Counter
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundwork",
			Name:      "steps_total",
			Help:      "Provisioning steps by outcome.",
		}, []string{"status"}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "groundwork",
			Name:      "step_duration_seconds",
			Help:      "Wall time per applied step.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8),
		}),
		downloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "groundwork",
			Name:      "download_bytes_total",
			Help:      "Bytes downloaded for installers and model artifacts.",
		}),
	}
	m.registry.MustRegister(m.stepsTotal, m.stepDuration, m.downloadBytes)
	return m
}

// ObserveStep records a finished step.
func (m *Metrics) ObserveStep(result domain.StepResult) {
	m.stepsTotal.WithLabelValues(string(result.Status)).Inc()
	if result.Status == domain.StepApplied {
		m.stepDuration.Observe(result.Duration.Seconds())
	}
}

// AddDownloadBytes records downloaded artifact bytes.
func (m *Metrics) AddDownloadBytes(n int64) {
	if n > 0 {
		m.downloadBytes.Add(float64(n))
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
