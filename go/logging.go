package dogshouseserver

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/dogshouse-service/internal/platform/requestid"
)

// AccessLog logs one line per request once the response is written.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", requestid.FromContext(c)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
