// Package metrics exposes Prometheus counters for settlement runs and the
// HTTP surface that serves them.
package metrics

import (
	"net/http"

	"dsm-settlement/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dsm"

type Metrics struct {
	requestCounter     *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	siteDaysSettled    prometheus.Counter
	fallbackBlocks     prometheus.Counter
	validationFailures *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers all collectors on reg. Pass a fresh prometheus.Registry in
// tests; the API server uses its own registry as well.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		siteDaysSettled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "site_days_settled_total",
				Help:      "Number of site-days settled",
			},
		),
		fallbackBlocks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallback_price_blocks_total",
				Help:      "Blocks settled on the configured fallback price",
			},
		),
		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_violations_total",
				Help:      "Block-series validation violations by rule",
			},
			[]string{"kind", "rule"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.requestCounter,
		m.requestDuration,
		m.siteDaysSettled,
		m.fallbackBlocks,
		m.validationFailures,
	)
	return m
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	m.requestCounter.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(route).Observe(seconds)
}

// ObserveDays records settled site-days and their fallback-priced blocks.
func (m *Metrics) ObserveDays(days, fallbackBlocks int) {
	m.siteDaysSettled.Add(float64(days))
	m.fallbackBlocks.Add(float64(fallbackBlocks))
}

// ObserveError counts each violation of a validation error. Other errors
// are ignored.
func (m *Metrics) ObserveError(err error) {
	verr, ok := model.AsValidationError(err)
	if !ok {
		return
	}
	for _, v := range verr.Violations {
		m.validationFailures.WithLabelValues(string(verr.Kind), string(v.Rule)).Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
