package middleware

import (
	"customer-sync/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// TraceIDHeader carries the per-request trace ID in both directions
	TraceIDHeader = "X-Trace-ID"
	// TraceIDContextKey is the echo context key holding the trace ID
	TraceIDContextKey = "trace_id"

	maxTraceIDLength = 128
	unknownTraceID   = "unknown"
)

// RequestID tags every request with a trace ID. A caller-supplied X-Trace-ID is
// reused when it is short and printable; otherwise a UUID is generated. The ID
// is echoed back and stored on the request context for the sync logger.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			traceID := req.Header.Get(TraceIDHeader)
			if !isUsableTraceID(traceID) {
				traceID = uuid.NewString()
			}

			c.Set(TraceIDContextKey, traceID)
			c.SetRequest(req.WithContext(services.WithRequestID(req.Context(), traceID)))
			c.Response().Header().Set(TraceIDHeader, traceID)
			return next(c)
		}
	}
}

// GetTraceID returns the trace ID set by RequestID, or "" outside of it.
func GetTraceID(c echo.Context) string {
	traceID, _ := c.Get(TraceIDContextKey).(string)
	return traceID
}

// traceIDOrUnknown is what error bodies report when RequestID did not run.
func traceIDOrUnknown(c echo.Context) string {
	if traceID := GetTraceID(c); traceID != "" {
		return traceID
	}
	return unknownTraceID
}

// isUsableTraceID keeps inbound IDs to visible ASCII so they cannot split log lines.
func isUsableTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
