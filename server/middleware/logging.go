package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicy/logger"
)

var probePaths = map[string]bool{
	"/health":  true,
	"/alive":   true,
	"/ready":   true,
	"/version": true,
}

// RequestLogger logs every request with method, path, status and duration.
// Probe paths are skipped. Matched requests log the route template, not the
// raw path.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if probePaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := logger.MergeWithDuration(logger.Fields(
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"client", c.ClientIP(),
		), latency)
		if latency > 500*time.Millisecond {
			fields["slow"] = true
		}

		l := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("Request completed", fields)
		case status >= 400:
			l.Warn("Request completed", fields)
		default:
			l.Debug("Request completed", fields)
		}
	}
}
