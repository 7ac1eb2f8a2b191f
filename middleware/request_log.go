package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskboss/logger"
	"taskboss/utils"
)

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		client := utils.ParseUserAgent(c.Request.UserAgent())

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"browser", client.Browser,
			"os", client.OS,
			"device", client.Device,
		}
		if id := c.GetString(ContextRequestID); id != "" {
			fields = append(fields, "request_id", id)
		}
		if id := c.GetString(ContextTraceID); id != "" {
			fields = append(fields, "trace_id", id)
		}
		if uid := UserID(c); uid != 0 {
			fields = append(fields, "user_id", uid)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
