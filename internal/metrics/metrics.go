// Package metrics exposes Prometheus collectors for the HTTP API and the
// coloring worker.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pewarnaan"

// Registry owns every collector of one process. All methods are safe on a nil
// receiver so callers can run without metrics.
type Registry struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	jobs        *prometheus.CounterVec
	jobDuration prometheus.Histogram
	fallbacks   *prometheus.CounterVec
	rateLimited prometheus.Counter
}

// New creates a registry with Go and process collectors attached.
func New(service string) *Registry {
	labels := prometheus.Labels{"service": service}
	r := &Registry{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Number of HTTP requests partitioned by status code, method and route.",
			ConstLabels: labels,
		}, []string{"code", "method", "path"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_milliseconds",
			Help:        "Time spent on HTTP requests partitioned by status code, method and route.",
			ConstLabels: labels,
			Buckets:     []float64{10, 50, 100, 300, 1000, 5000},
		}, []string{"code", "method", "path"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "coloring_jobs_total",
			Help:        "Coloring jobs partitioned by lifecycle event.",
			ConstLabels: labels,
		}, []string{"event"}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "coloring_job_duration_seconds",
			Help:        "Wall time of finished coloring jobs.",
			ConstLabels: labels,
			Buckets:     []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "recommender_fallbacks_total",
			Help:        "Recommender requests answered by the local similarity fallback.",
			ConstLabels: labels,
		}, []string{"reason"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "rate_limited_requests_total",
			Help:        "Requests rejected by the per-IP limiter.",
			ConstLabels: labels,
		}),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requests, r.latency, r.jobs, r.jobDuration, r.fallbacks, r.rateLimited,
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Middleware records request counts and latency by chi route pattern. The
// label never carries a trailing slash whatever the chi version reports.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		r.requests.WithLabelValues(code, req.Method, route).Inc()
		r.latency.WithLabelValues(code, req.Method, route).Observe(float64(time.Since(start).Milliseconds()))
	})
}

func (r *Registry) JobQueued() {
	if r != nil {
		r.jobs.WithLabelValues("queued").Inc()
	}
}

func (r *Registry) JobStarted() {
	if r != nil {
		r.jobs.WithLabelValues("started").Inc()
	}
}

// JobFinished records the outcome of a job that ran for d.
func (r *Registry) JobFinished(ok bool, d time.Duration) {
	if r == nil {
		return
	}
	event := "completed"
	if !ok {
		event = "failed"
	}
	r.jobs.WithLabelValues(event).Inc()
	r.jobDuration.Observe(d.Seconds())
}

func (r *Registry) RecommenderFallback(reason string) {
	if r != nil {
		r.fallbacks.WithLabelValues(reason).Inc()
	}
}

func (r *Registry) RateLimited() {
	if r != nil {
		r.rateLimited.Inc()
	}
}
