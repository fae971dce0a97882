package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/roomfinder-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxClientTraceID = 128
)

// AttachTraceContext puts the request id and the active span's trace id on
// the request context for logging. It must run after otelgin. A trace id sent
// by the caller is kept only as the client trace id; logs always carry the
// id the spans are exported under.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		td := &ctxutil.TraceData{
			RequestID:     reqID,
			ClientTraceID: clientTraceID(c.GetHeader(headerTraceID)),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			td.TraceID = sc.TraceID().String()
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerRequestID, reqID)
		if td.TraceID != "" {
			c.Set("trace_id", td.TraceID)
			c.Writer.Header().Set(headerTraceID, td.TraceID)
		}
		c.Next()
	}
}

func clientTraceID(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxClientTraceID {
		raw = raw[:maxClientTraceID]
	}
	return raw
}
