package handlers

import (
	"log/slog"
	"net/http"

	"customer-sync/internal/errors"
	"customer-sync/internal/validation"

	"github.com/labstack/echo/v4"
)

// Error responses go through these helpers:
//   SendError           4xx and business errors with a catalogue code
//   SendValidationError validator failures, one detail per field
//   SendSystemError     unexpected failures; the cause is logged, never returned
//   SendDatabaseError   storage failures (SYSTEM_002)
//   SendUpstreamError   provider failures (SYSTEM_007)

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendValidationError reports validator failures field by field
func SendValidationError(c echo.Context, err error) error {
	fieldErrors := validation.FieldErrors(err)
	if fieldErrors == nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}
	errorResponse := errors.NewValidationError(fieldErrors, getTraceID(c))
	return c.JSON(http.StatusBadRequest, errorResponse)
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	errorResponse, cause := errors.WrapSystemError(err, getTraceID(c))
	return sendWrapped(c, errorResponse, cause)
}

func SendDatabaseError(c echo.Context, err error, opts ...errors.ErrorOption) error {
	errorResponse, cause := errors.WrapDatabaseError(err, getTraceID(c))
	return sendWrapped(c, errorResponse, cause, opts...)
}

func SendUpstreamError(c echo.Context, err error, opts ...errors.ErrorOption) error {
	errorResponse, cause := errors.WrapUpstreamError(err, getTraceID(c))
	return sendWrapped(c, errorResponse, cause, opts...)
}

func sendWrapped(c echo.Context, errorResponse *errors.ErrorResponse, cause error, opts ...errors.ErrorOption) error {
	for _, opt := range opts {
		opt(errorResponse)
	}

	slog.ErrorContext(c.Request().Context(), "request failed",
		"trace_id", errorResponse.Error.TraceID,
		"error_code", errorResponse.Error.Code,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", cause,
	)

	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}
