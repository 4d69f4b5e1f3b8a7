package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/activity-insights-api/internal/service"
)

// Metrics observes request duration and status per route. Scrapes of the
// Prometheus endpoint itself are not counted.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		// Unmatched routes fall back to the raw request path.
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
