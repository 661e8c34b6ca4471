// Package metrics exposes Prometheus instrumentation for the query engine
// and the HTTP API.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the metrics. A nil *Collector is valid and records
// nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
	Throttled     prometheus.Counter

	Queries        *prometheus.CounterVec
	QueryDurations *prometheus.HistogramVec
	CatalogBodies  prometheus.Gauge
	CatalogReloads *prometheus.CounterVec
}

// NewCollector registers metrics against reg, defaulting to the global
// registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.HTTPRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbits_http_requests_total",
		Help: "HTTP requests handled, labeled by route and status code.",
	}, []string{"route", "code"})); err != nil {
		return nil, err
	}
	if c.HTTPDurations, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orbits_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route"})); err != nil {
		return nil, err
	}
	if c.Throttled, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orbits_http_throttled_total",
		Help: "Requests rejected by the per-client rate limiter.",
	})); err != nil {
		return nil, err
	}
	if c.Queries, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbits_queries_total",
		Help: "Engine queries, labeled by kind and result status.",
	}, []string{"kind", "status"})); err != nil {
		return nil, err
	}
	if c.QueryDurations, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orbits_query_duration_seconds",
		Help:    "Engine query latency in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if c.CatalogBodies, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orbits_catalog_bodies",
		Help: "Bodies in the loaded catalog.",
	})); err != nil {
		return nil, err
	}
	if c.CatalogReloads, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbits_catalog_reloads_total",
		Help: "Catalog file reloads, labeled by result.",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	return c, nil
}

// register adds col to reg, reusing an identical collector that is
// already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	if err := reg.Register(col); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		var zero T
		return zero, err
	}
	return col, nil
}

// ObserveQuery records one engine query.
func (c *Collector) ObserveQuery(kind, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.Queries.WithLabelValues(kind, status).Inc()
	c.QueryDurations.WithLabelValues(kind).Observe(d.Seconds())
}

// SetCatalogBodies sets the catalog size gauge.
func (c *Collector) SetCatalogBodies(n int) {
	if c == nil {
		return
	}
	c.CatalogBodies.Set(float64(n))
}

// CatalogReloaded counts a reload attempt.
func (c *Collector) CatalogReloaded(err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.CatalogReloads.WithLabelValues(result).Inc()
}

// ThrottledRequest counts a rate-limited request.
func (c *Collector) ThrottledRequest() {
	if c == nil {
		return
	}
	c.Throttled.Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// statusRecorder captures the response code.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency under route.
func (c *Collector) Middleware(route string, next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		c.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		c.HTTPDurations.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
