package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewRegistry returns the registry served on /metrics, preloaded with the Go
// and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func constLabels(cfg Config) prometheus.Labels {
	service := strings.TrimSpace(cfg.ServiceName)
	if service == "" {
		service = "quotedesk"
	}
	env := strings.TrimSpace(cfg.Environment)
	if env == "" {
		env = "unknown"
	}
	return prometheus.Labels{"service": service, "env": env}
}

// HTTPMetrics records inbound request counts and latency per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer, cfg Config) *HTTPMetrics {
	labels := constLabels(cfg)
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "quotedesk_http_requests_total",
			Help:        "HTTP requests by route, method and status.",
			ConstLabels: labels,
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "quotedesk_http_request_duration_seconds",
			Help:        "HTTP request latency by route.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware observes every request after the handler chain completes.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// StoreMetrics records calls made to the remote persistence service.
type StoreMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewStoreMetrics(reg prometheus.Registerer, cfg Config) *StoreMetrics {
	labels := constLabels(cfg)
	m := &StoreMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "quotedesk_store_calls_total",
			Help:        "Remote store calls by operation and outcome.",
			ConstLabels: labels,
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "quotedesk_store_call_duration_seconds",
			Help:        "Remote store call latency by operation.",
			Buckets:     []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			ConstLabels: labels,
		}, []string{"op"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

func (m *StoreMetrics) Observe(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// RenderMetrics records how long each output format takes to produce.
type RenderMetrics struct {
	duration *prometheus.HistogramVec
	bytes    *prometheus.HistogramVec
}

func NewRenderMetrics(reg prometheus.Registerer, cfg Config) *RenderMetrics {
	labels := constLabels(cfg)
	m := &RenderMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "quotedesk_render_duration_seconds",
			Help:        "Document render latency by format.",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			ConstLabels: labels,
		}, []string{"format"}),
		bytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "quotedesk_render_output_bytes",
			Help:        "Rendered document size by format.",
			Buckets:     prometheus.ExponentialBuckets(1024, 4, 8),
			ConstLabels: labels,
		}, []string{"format"}),
	}
	reg.MustRegister(m.duration, m.bytes)
	return m
}

func (m *RenderMetrics) Observe(format string, size int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(format).Observe(elapsed.Seconds())
	m.bytes.WithLabelValues(format).Observe(float64(size))
}
