// Package metrics exposes Prometheus collectors for OCR requests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the worker's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal     *prometheus.CounterVec
	processingSeconds *prometheus.HistogramVec
	confidence        prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ocr_requests_total",
				Help: "OCR requests by engine and outcome code",
			},
			[]string{"engine", "code"},
		),
		processingSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ocr_processing_seconds",
				Help:    "Time spent inside the OCR engine",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 60},
			},
			[]string{"engine"},
		),
		confidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ocr_confidence",
				Help:    "Aggregate confidence of successful recognitions",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
	}
}

// ObserveSuccess records a completed recognition.
func (m *Metrics) ObserveSuccess(engine string, elapsed time.Duration, confidence float64) {
	m.requestsTotal.WithLabelValues(engine, "OK").Inc()
	m.processingSeconds.WithLabelValues(engine).Observe(elapsed.Seconds())
	m.confidence.Observe(confidence)
}

// ObserveFailure records a failed request. engine may be empty when the
// request failed before resolution.
func (m *Metrics) ObserveFailure(engine, code string) {
	if engine == "" {
		engine = "none"
	}
	m.requestsTotal.WithLabelValues(engine, code).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
