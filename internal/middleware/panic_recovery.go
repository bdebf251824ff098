package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"customer-sync/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery turns a panicking handler into a SYSTEM_001 response.
// A panic during a sync run leaves the run row as running; nothing is committed
// because the customer writes happen inside a single transaction.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				traceID := traceIDOrUnknown(c)

				slog.ErrorContext(c.Request().Context(), "Panic recovered",
					"trace_id", traceID,
					"panic", fmt.Sprintf("%v", r),
					"stack_trace", string(debug.Stack()),
					"path", c.Request().URL.Path,
					"method", c.Request().Method,
				)

				apiErrorsTotal.WithLabelValues(
					string(errors.SystemInternalError),
					c.Path(),
					fmt.Sprintf("%d", http.StatusInternalServerError),
				).Inc()

				if c.Response().Committed {
					return
				}

				errorResponse := errors.NewErrorResponse(errors.SystemInternalError, traceID)
				if sendErr := c.JSON(http.StatusInternalServerError, errorResponse); sendErr != nil {
					err = sendErr
				}
			}()

			return next(c)
		}
	}
}
