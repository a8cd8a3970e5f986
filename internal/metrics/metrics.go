package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Probe outcomes.
const (
	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
	OutcomeCached  = "cached"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cookingapp",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cookingapp",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	discoveryProbes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cookingapp",
			Name:      "discovery_probes_total",
			Help:      "Market website probes by outcome",
		},
		[]string{"outcome"},
	)

	discoveryPromotions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cookingapp",
			Name:      "discovery_promotions_total",
			Help:      "Fallback markets persisted after a match",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration, httpRequestsTotal, discoveryProbes, discoveryPromotions)
}

// Middleware records request duration and count labelled by route pattern.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := normalizePath(c.FullPath())
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	}
}

func normalizePath(path string) string {
	if path == "" {
		return "unknown"
	}
	return path
}

func ObserveProbe(outcome string) {
	discoveryProbes.WithLabelValues(outcome).Inc()
}

func AddPromotions(n int) {
	if n > 0 {
		discoveryPromotions.Add(float64(n))
	}
}
