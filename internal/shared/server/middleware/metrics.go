package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"docuhub-backend/internal/shared/metrics"
)

// Metrics records request count and latency per route. The route template
// (e.g. /api/documents/:id) is used as the path label to keep cardinality
// bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}
