package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loadsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chorewheel_loads_completed_total",
		Help: "Completed dishwasher loads by kind.",
	}, []string{"kind"})

	authDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chorewheel_auth_denied_total",
		Help: "Rejected PIN checks and grant verifications.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chorewheel_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// observeRequests records request latency per route.
func observeRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// metricsHandler serves the prometheus registry.
func metricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
