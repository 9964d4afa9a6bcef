package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the collectors and the registry they are exposed from.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	Guesses           *prometheus.CounterVec
	LevelsGenerated   prometheus.Counter
	GenerationRuns    *prometheus.CounterVec
	ImageLookups      *prometheus.CounterVec
	GenerationEnqueue *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		Guesses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebux_guesses_total",
				Help: "Guesses submitted, by result",
			},
			[]string{"result"},
		),
		LevelsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rebux_levels_generated_total",
			Help: "Puzzle levels persisted by the generator",
		}),
		GenerationRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebux_generation_runs_total",
				Help: "Generation runs, by final status",
			},
			[]string{"status"},
		),
		ImageLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebux_image_lookups_total",
				Help: "Image provider lookups, by status",
			},
			[]string{"status"},
		),
		GenerationEnqueue: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebux_generation_enqueued_total",
				Help: "Generation requests handed to the task queue, by outcome",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDuration,
		m.Guesses,
		m.LevelsGenerated,
		m.GenerationRuns,
		m.ImageLookups,
		m.GenerationEnqueue,
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request count and latency keyed by the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
