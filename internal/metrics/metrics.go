// Package metrics provides Prometheus metrics for Janus.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects cache, upstream and HTTP metrics
type Metrics struct {
	registry *prometheus.Registry

	CacheLookups     *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	HTTPLatency      *prometheus.HistogramVec
	RateLimited      *prometheus.CounterVec
	DevigFailures    prometheus.Counter
	ParseFailures    prometheus.Counter
}

// New creates a metrics collector with its own registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "janus_cache_lookups_total",
				Help: "Cache-aside lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "janus_upstream_requests_total",
				Help: "Requests to external collaborators by service and status",
			},
			[]string{"service", "status"},
		),
		UpstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "janus_upstream_request_duration_seconds",
				Help:    "Latency of requests to external collaborators",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"service"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "janus_http_requests_total",
				Help: "HTTP requests served by route and status code",
			},
			[]string{"route", "code"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "janus_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		RateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "janus_rate_limited_total",
				Help: "Requests rejected by the per-user rate limiter",
			},
			[]string{"endpoint"},
		),
		DevigFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "janus_devig_failures_total",
			Help: "Markets left without no-vig prices",
		}),
		ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "janus_market_value_parse_failures_total",
			Help: "Player market values that could not be parsed",
		}),
	}

	registry.MustRegister(
		m.CacheLookups,
		m.UpstreamRequests,
		m.UpstreamLatency,
		m.HTTPRequests,
		m.HTTPLatency,
		m.RateLimited,
		m.DevigFailures,
		m.ParseFailures,
	)

	return m
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// CacheLookup records a cache-aside hit or miss
func (m *Metrics) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

// Upstream records one call to a collaborator; status 0 means no response
func (m *Metrics) Upstream(service string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(service, label).Inc()
	m.UpstreamLatency.WithLabelValues(service).Observe(elapsed.Seconds())
}

// HTTP records one served request
func (m *Metrics) HTTP(route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RateLimitHit records a rejected request
func (m *Metrics) RateLimitHit(endpoint string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(endpoint).Inc()
}

// DevigFailed records a market that could not be devigged
func (m *Metrics) DevigFailed() {
	if m == nil {
		return
	}
	m.DevigFailures.Inc()
}

// ParseFailed records an unparseable market value
func (m *Metrics) ParseFailed() {
	if m == nil {
		return
	}
	m.ParseFailures.Inc()
}
