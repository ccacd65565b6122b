package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Decision outcome labels recorded by the gateway.
const (
	OutcomeForward       = "forward"
	OutcomeRedirect      = "redirect"
	OutcomePassthrough   = "passthrough"
	OutcomeCallback      = "callback"
	OutcomeCallbackError = "callback_error"
	OutcomeFatal         = "fatal"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Gateway decision metrics
	DecisionsTotal   *prometheus.CounterVec
	DecisionDuration *prometheus.HistogramVec

	// Identity config metrics
	ConfigLoadsTotal *prometheus.CounterVec

	// Signing key metrics
	KeySetFetchesTotal   *prometheus.CounterVec
	KeySetFetchDuration  prometheus.Histogram
	KeyCacheHitsTotal    prometheus.Counter
	KeyCacheMissesTotal  prometheus.Counter
	TokenRejectionsTotal *prometheus.CounterVec

	// HTTP metrics (server mode)
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		DecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_decisions_total",
				Help: "Total number of gateway decisions by outcome",
			},
			[]string{"outcome"},
		),
		DecisionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgegate_decision_duration_seconds",
				Help:    "Gateway decision duration in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"outcome"},
		),
		ConfigLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_config_loads_total",
				Help: "Total number of identity config loads by source and status",
			},
			[]string{"source", "status"},
		),
		KeySetFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_keyset_fetches_total",
				Help: "Total number of signing key document fetches by status",
			},
			[]string{"status"},
		),
		KeySetFetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "edgegate_keyset_fetch_duration_seconds",
				Help:    "Signing key document fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		KeyCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "edgegate_key_cache_hits_total",
				Help: "Total number of signing key cache hits",
			},
		),
		KeyCacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "edgegate_key_cache_misses_total",
				Help: "Total number of signing key cache misses",
			},
		),
		TokenRejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_token_rejections_total",
				Help: "Total number of rejected session tokens by reason",
			},
			[]string{"reason"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgegate_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgegate_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.DecisionsTotal,
		m.DecisionDuration,
		m.ConfigLoadsTotal,
		m.KeySetFetchesTotal,
		m.KeySetFetchDuration,
		m.KeyCacheHitsTotal,
		m.KeyCacheMissesTotal,
		m.TokenRejectionsTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
	)

	return m
}

// ObserveDecision records a single gateway decision
func (m *Metrics) ObserveDecision(outcome string, duration time.Duration) {
	m.DecisionsTotal.WithLabelValues(outcome).Inc()
	m.DecisionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
// Labels carry the method only: the gateway fronts arbitrary site paths and
// labeling by path would make the series cardinality unbounded.
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method).Observe(float64(rw.bytesWritten))
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
