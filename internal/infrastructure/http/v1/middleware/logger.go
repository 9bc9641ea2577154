package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"kiosko/pkg/logger"
)

// Logger logs one line per request with status and latency.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		entry := log.WithContext(c.Request.Context())
		kv := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "error", c.Errors.Last().Error())
		}

		switch {
		case status >= 500:
			entry.Errorw("http request", kv...)
		case status >= 400:
			entry.Warnw("http request", kv...)
		default:
			entry.Infow("http request", kv...)
		}
	}
}
