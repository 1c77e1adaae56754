package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceIDKey is the gin context key holding the request trace id.
	TraceIDKey = "trace_id"
	// TraceIDHeader carries the trace id in and out of the service.
	TraceIDHeader = "X-Trace-ID"
)

// TraceID assigns every request a trace id. A caller-supplied header value
// is kept so ids stay stable across clients that propagate them; the id is
// echoed back on the response.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(TraceIDKey, id)
		c.Header(TraceIDHeader, id)
		c.Next()
	}
}

// GetTraceID returns the request trace id, or "" outside the middleware.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(TraceIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
