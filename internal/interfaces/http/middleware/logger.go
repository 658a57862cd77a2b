package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cover-chain.backend/internal/observability"
	"cover-chain.backend/pkg/logger"
)

// LoggerMiddleware logs HTTP requests using the structured logger and
// records request latency. The metric is labeled with the route template
// rather than the raw path to keep cardinality bounded.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(status), latency.Seconds())

		if raw != "" {
			path = path + "?" + raw
		}
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, status, latency, c.ClientIP())
	}
}
