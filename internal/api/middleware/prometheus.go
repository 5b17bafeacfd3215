package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "payment_api_http_requests_in_flight",
		Help: "Number of HTTP requests currently being served by the read-only API.",
	})
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_api_http_duration_seconds",
		Help:    "Duration of HTTP requests served by the read-only API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_api_http_requests_total",
		Help: "Total HTTP requests served by the read-only API.",
	}, []string{"method", "endpoint", "status"})
)

// Prometheus collects per-request HTTP metrics: an in-flight gauge, a
// duration histogram and a total counter, each keyed by
// method/endpoint/status.
func Prometheus() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpDuration.WithLabelValues(c.Request.Method, endpoint, status).Observe(duration.Seconds())
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
	}
}
