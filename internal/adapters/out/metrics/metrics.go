// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
)

var _ ports.EventPublisher = (*Metrics)(nil)

const namespace = "parceltrack"

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	gatherer prometheus.Gatherer

	StatusTransitions   *prometheus.CounterVec
	ParcelsByStatus     *prometheus.GaugeVec
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RateLimited         prometheus.Counter
}

// New registers the collectors on a fresh registry, along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves them from gatherer.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: gatherer,
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Committed parcel status changes.",
		}, []string{"from", "to"}),
		ParcelsByStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parcels_by_status",
			Help:      "Parcels per current status, refreshed by the stats job.",
		}, []string{"status"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_rate_limited_total",
			Help:      "Public tracking requests rejected by the rate limiter.",
		}),
	}
}

// Publish counts committed transitions.
func (m *Metrics) Publish(_ context.Context, events ...parcel.StatusChanged) error {
	for _, e := range events {
		m.StatusTransitions.WithLabelValues(e.From.String(), e.To.String()).Inc()
	}
	return nil
}

// SetParcelsByStatus replaces the gauge values with counts keyed by status name.
func (m *Metrics) SetParcelsByStatus(counts map[string]int64) {
	m.ParcelsByStatus.Reset()
	for status, n := range counts {
		m.ParcelsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

// ObserveHTTPRequest records one handled request.
func (m *Metrics) ObserveHTTPRequest(method, route string, code int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
