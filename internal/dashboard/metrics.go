package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KaramelBytes/techpulse/internal/survey"
)

// Metrics provides observability for the dashboard API.
// Tracks request counts and latency per route plus dataset load outcomes.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Loads           *prometheus.CounterVec
	LoadDuration    prometheus.Histogram
	ViewRows        prometheus.Histogram
}

// NewMetrics creates a Metrics instance on its own registry, so several
// servers (or tests) can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "techpulse_http_requests_total",
			Help: "Total number of API requests by route and status code",
		}, []string{"route", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "techpulse_http_request_duration_seconds",
			Help:    "Duration of API requests by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
		Loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "techpulse_dataset_loads_total",
			Help: "Dataset load requests by result (hit, miss, error)",
		}, []string{"result"}),
		LoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "techpulse_dataset_load_duration_seconds",
			Help:    "Duration of dataset loads that read the source file",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		ViewRows: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "techpulse_view_rows",
			Help:    "Number of rows left after filtering",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		}),
	}
}

// ObserveLoad records a loader event. It matches survey.LoadObserver.
func (m *Metrics) ObserveLoad(ev survey.LoadEvent) {
	switch {
	case ev.Err != nil:
		m.Loads.WithLabelValues("error").Inc()
	case ev.CacheHit:
		m.Loads.WithLabelValues("hit").Inc()
	default:
		m.Loads.WithLabelValues("miss").Inc()
		m.LoadDuration.Observe(ev.Duration.Seconds())
	}
}

// ObserveView records the size of a filtered view.
func (m *Metrics) ObserveView(rows int) {
	m.ViewRows.Observe(float64(rows))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument is middleware that counts and times requests by route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
