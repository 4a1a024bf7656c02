// Package telemetry holds the prometheus collectors of the service: HTTP
// server metrics recorded by middleware, plus the domain counters for
// dataset writes, checklist exports and login attempts.
package telemetry

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "safesurgery"

// Export results.
const (
	ExportOK    = "ok"
	ExportEmpty = "empty"
	ExportError = "error"
)

// Login results.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginError   = "error"
)

// defaultDurationBuckets are the histogram bucket boundaries (in seconds)
// used for HTTP request duration.
var defaultDurationBuckets = []float64{
	0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
}

// Provider owns a private registry so tests can create as many providers as
// they like without colliding on the global one.
type Provider struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	activeRequests prometheus.Gauge
	recordsWritten *prometheus.CounterVec
	exports        *prometheus.CounterVec
	logins         *prometheus.CounterVec
}

// NewProvider creates the collectors and registers them, together with the
// Go runtime and process collectors.
func NewProvider() *Provider {
	p := &Provider{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   defaultDurationBuckets,
		}, []string{"method", "route"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Requests currently being served.",
		}),
		recordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Rows appended to a dataset.",
		}, []string{"dataset"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checklist_exports_total",
			Help:      "Checklist export attempts, by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts, by result.",
		}, []string{"result"}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.requests,
		p.duration,
		p.activeRequests,
		p.recordsWritten,
		p.exports,
		p.logins,
	)
	return p
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Provider) Registry() *prometheus.Registry { return p.registry }

// RecordsWritten counts n rows appended to dataset. Safe on a nil Provider.
func (p *Provider) RecordsWritten(dataset string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.recordsWritten.WithLabelValues(dataset).Add(float64(n))
}

// Export counts one checklist export with the given result.
func (p *Provider) Export(result string) {
	if p == nil {
		return
	}
	p.exports.WithLabelValues(result).Inc()
}

// Login counts one login attempt with the given result.
func (p *Provider) Login(result string) {
	if p == nil {
		return
	}
	p.logins.WithLabelValues(result).Inc()
}

// MetricsMiddleware returns an Echo middleware that records HTTP server metrics.
func (p *Provider) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p.activeRequests.Inc()
			start := time.Now()

			err := next(c)
			p.activeRequests.Dec()

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(statusOf(c, err))

			p.requests.WithLabelValues(method, route, status).Inc()
			p.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// statusOf returns the status the client will see. The error handler has
// not run yet when an error is returned, so the code comes from the error.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// PrometheusHandler returns an Echo handler that serves metrics in Prometheus
// text exposition format at /metrics.
func (p *Provider) PrometheusHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
}
