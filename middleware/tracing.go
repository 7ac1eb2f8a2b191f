package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const (
	ContextRequestID = "request_id"
	ContextTraceID   = "trace_id"

	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"
)

// RequestTracingMiddleware tags each request with a request id (client
// supplied or fresh) and the active OpenTelemetry trace id when there is one.
func RequestTracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(headerRequestID, requestID)

		if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
			traceID := spanCtx.TraceID().String()
			c.Set(ContextTraceID, traceID)
			c.Header(headerTraceID, traceID)
		}
		c.Next()
	}
}
