package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
)

// MetricsConfig configures the Prometheus middleware.
type MetricsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *request.Request) bool

	// Registerer receives the collectors (default: prometheus.DefaultRegisterer)
	Registerer prometheus.Registerer

	// Namespace prefixes metric names (default: "http")
	Namespace string

	// Subsystem is inserted between namespace and name
	Subsystem string

	// Buckets for the duration histogram (default: prometheus.DefBuckets)
	Buckets []float64

	// PathLabel adds a "path" label. Return a route template, not the raw
	// path, to keep cardinality bounded.
	PathLabel func(req *request.Request) string
}

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	size     *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// Metrics records request count, latency, response size and in-flight
// requests in the default Prometheus registry.
func Metrics() handler.Middleware {
	return MetricsWithConfig(MetricsConfig{})
}

// MetricsWithConfig is Metrics with custom configuration. Constructing it
// twice against the same registerer reuses the registered collectors.
func MetricsWithConfig(cfg MetricsConfig) handler.Middleware {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "http"
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prometheus.DefBuckets
	}

	labels := []string{"method", "code"}
	if cfg.PathLabel != nil {
		labels = append(labels, "path")
	}

	m := httpMetrics{
		requests: register(cfg.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, labels)),
		duration: register(cfg.Registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   cfg.Buckets,
		}, labels)),
		size: register(cfg.Registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "response_size_bytes",
			Help:      "HTTP response body size in bytes.",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
		}, labels)),
		inFlight: register(cfg.Registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests being served.",
		})),
	}

	return handler.From(func(next handler.Next, req *request.Request, res *response.Response) handler.Done {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Advance()
		}

		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		done := next.Advance()

		values := []string{req.Method(), strconv.Itoa(res.StatusCode())}
		if cfg.PathLabel != nil {
			values = append(values, cfg.PathLabel(req))
		}
		m.requests.WithLabelValues(values...).Inc()
		m.duration.WithLabelValues(values...).Observe(time.Since(start).Seconds())
		m.size.WithLabelValues(values...).Observe(float64(res.BytesWritten()))
		return done
	})
}

// MetricsHandler exposes the gatherer in the Prometheus text format.
// A nil gatherer uses prometheus.DefaultGatherer.
//
//	a.Get("/metrics", middleware.MetricsHandler(nil))
func MetricsHandler(g prometheus.Gatherer) handler.Middleware {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return handler.FromHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

// register adds c to reg, returning the already registered collector when
// an identical one exists.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
