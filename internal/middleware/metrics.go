package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wpinrui/tp/internal/service"
)

// unmatchedRoute labels requests that hit no route so unknown paths do not
// create new label values.
const unmatchedRoute = "unmatched"

// Metrics returns middleware that records request metrics against the route
// template. Long-lived streams are recorded once they end.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
