package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wenhuang/taxi-insights-go/internal/logger"
)

// Logger middleware logs HTTP requests
func Logger() gin.HandlerFunc {
	log := logger.With("http")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		evt := log.Info()
		if c.Writer.Status() >= 500 {
			evt = log.Error()
		}
		evt.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("client", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("errors", c.Errors.String()).
			Msg("request")
	}
}
