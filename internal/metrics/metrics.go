// Package metrics exposes prometheus collectors for upstream calls and the response cache.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Collector holds the storefront metrics and the registry they live in.
type Collector struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheEvents      *prometheus.CounterVec
}

// NewCollector creates and registers the metrics. A nil registry gets a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Upstream API requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Upstream API request latency.",
				Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "events_total",
				Help:      "Response cache lookups by outcome (hit, miss, shared, error).",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(c.upstreamRequests, c.upstreamDuration, c.cacheEvents)
	return c
}

// ObserveUpstream records one upstream call. code is 0 when no response arrived.
func (c *Collector) ObserveUpstream(method string, code int, d time.Duration) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	c.upstreamRequests.WithLabelValues(method, label).Inc()
	c.upstreamDuration.WithLabelValues(method).Observe(d.Seconds())
}

// CacheEvent counts a cache lookup outcome.
func (c *Collector) CacheEvent(outcome string) {
	c.cacheEvents.WithLabelValues(outcome).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
