package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/services"
	"github.com/desertthunder/grand/internal/tasks"
)

// Metrics exposes Prometheus collectors for the HTTP surface and the content engine.
type Metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	upstream    *prometheus.CounterVec
	generations *prometheus.CounterVec
	gatherer    prometheus.Gatherer
}

// MustNewMetrics registers the collectors with reg, reusing any already registered under the same
// names. A nil reg uses a fresh registry, which is what tests want.
func MustNewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grand",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "code"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "grand",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	upstream := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grand",
			Subsystem: "backend",
			Name:      "upstream_requests_total",
			Help:      "Proxied backend calls by route and outcome (ok, upstream_error, network_error).",
		},
		[]string{"route", "outcome"},
	)
	generations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grand",
			Subsystem: "content",
			Name:      "generations_total",
			Help:      "Stored generation results by slot and source (live or fallback).",
		},
		[]string{"slot", "source"},
	)

	requests = registerCounter(reg, requests)
	upstream = registerCounter(reg, upstream)
	generations = registerCounter(reg, generations)
	if err := reg.Register(duration); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(err)
		}
		duration = already.ExistingCollector.(*prometheus.HistogramVec)
	}

	return &Metrics{
		requests:    requests,
		duration:    duration,
		upstream:    upstream,
		generations: generations,
		gatherer:    reg,
	}
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(err)
		}
		return already.ExistingCollector.(*prometheus.CounterVec)
	}
	return c
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records a served request.
func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(d.Seconds())
}

// Upstream outcomes.
const (
	UpstreamOK           = "ok"
	UpstreamError        = "upstream_error"
	UpstreamNetworkError = "network_error"
)

// upstreamOutcome classifies a backend client error. A nil error is [UpstreamOK].
func upstreamOutcome(err error) string {
	var ue *services.UpstreamError
	switch {
	case err == nil:
		return UpstreamOK
	case errors.As(err, &ue):
		return UpstreamError
	}
	return UpstreamNetworkError
}

// ObserveUpstream records a proxied backend call.
func (m *Metrics) ObserveUpstream(route, outcome string) {
	if m == nil {
		return
	}
	m.upstream.WithLabelValues(route, outcome).Inc()
}

// ObserveGeneration implements [tasks.Observer].
func (m *Metrics) ObserveGeneration(slot tasks.Slot, source models.Source) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(string(slot), string(source)).Inc()
}

var _ tasks.Observer = (*Metrics)(nil)
