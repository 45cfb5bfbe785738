package http_metrics_middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/wannawatch/core/internal/metrics"
)

// Instrument records request count and latency per route template.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(started).Seconds())
	}
}
