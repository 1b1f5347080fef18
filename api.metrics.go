package bookstore

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of one api instance.
// Each instance owns its registry so several can live in a process.
type Metrics struct {
	registry *prometheus.Registry
	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics provides the http metrics of the given service.
func NewMetrics(service ServiceKind) *Metrics {
	labels := prometheus.Labels{"service": string(service)}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   "bookstore",
				Subsystem:   "http",
				Name:        "inflight_requests",
				Help:        "Current number of in-flight HTTP requests.",
				ConstLabels: labels,
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   "bookstore",
				Subsystem:   "http",
				Name:        "requests_total",
				Help:        "Total number of HTTP requests handled.",
				ConstLabels: labels,
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   "bookstore",
				Subsystem:   "http",
				Name:        "request_duration_seconds",
				Help:        "Duration of HTTP requests.",
				ConstLabels: labels,
				Buckets:     prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "route"},
		),
	}
	m.registry.MustRegister(
		m.inFlight,
		m.requests,
		m.duration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// MetricsMiddleware records the number, status and duration of requests.
// Requests are labeled with the route template so paths holding ids do
// not create a new series each.
func (api *APIHandler) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw, ok := w.(*CustomResponseWriter)
		if !ok {
			cw = NewCustomResponseWriter(w)
		}
		start := time.Now()
		api.metrics.inFlight.Inc()
		defer api.metrics.inFlight.Dec()

		next.ServeHTTP(cw, r)

		route := routeTemplate(r)
		api.metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(cw.Status())).Inc()
		api.metrics.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
