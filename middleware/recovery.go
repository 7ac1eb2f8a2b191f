package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboss/logger"
	"taskboss/utils"
)

// Recovery turns a panic into a logged 500 with the usual error body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered",
					"panic", rec,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(ContextRequestID),
				)
				utils.TrackError("http", "panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, &utils.Response{
					Error: "internal server error",
					Code:  "internal",
				})
			}
		}()
		c.Next()
	}
}
