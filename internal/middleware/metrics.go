package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slada12/secure-blu-vault/internal/platform/metrics"
)

// HTTPMetrics records request latency by matched route.
func HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
