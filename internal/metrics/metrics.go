package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corridor",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "corridor",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Corridor metrics
	Computations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corridor",
		Subsystem: "sizer",
		Name:      "computations_total",
		Help:      "Corridor computations by sizing method and outcome",
	}, []string{"method", "outcome"})

	ComputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "corridor",
		Subsystem: "sizer",
		Name:      "compute_duration_seconds",
		Help:      "Duration of corridor sizing and filtering",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method"})

	PairsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "corridor",
		Subsystem: "filter",
		Name:      "pairs_evaluated_total",
		Help:      "Total pairs tested against a corridor",
	})

	PairsKept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "corridor",
		Subsystem: "filter",
		Name:      "pairs_kept_total",
		Help:      "Total pairs found inside a corridor",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corridor",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corridor",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	WarmerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corridor",
		Subsystem: "warmer",
		Name:      "runs_total",
		Help:      "Cache warmer passes by outcome",
	}, []string{"outcome"})
)

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request metrics under the given path label. The label is
// passed in rather than read from the URL to keep cardinality bounded.
func Middleware(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus /metrics endpoint
func Handler() http.HandlerFunc {
	return promhttp.Handler().ServeHTTP
}
