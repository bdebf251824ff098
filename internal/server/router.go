package server

import (
	"log/slog"
	"net/http"

	"customer-sync/internal/handlers"
	"customer-sync/internal/middleware"
	"customer-sync/internal/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// RouterDeps holds everything the HTTP layer needs
type RouterDeps struct {
	DB              *gorm.DB
	CustomerService services.CustomerServiceInterface
	SyncService     services.SyncServiceInterface
	// SyncLimiter guards the sync trigger; nil disables rate limiting
	SyncLimiter *middleware.IPRateLimiter
	// MetricsHandler defaults to promhttp.Handler()
	MetricsHandler  http.Handler
	Logger          *slog.Logger
	StrictTransport bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()

	// --- Global middleware ---
	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders(deps.StrictTransport))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("trace_id", middleware.GetTraceID(c)),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Int64("latency_ms", v.Latency.Milliseconds()),
				slog.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	}))

	// --- Dependencies ---
	healthHandler := handlers.NewHealthCheckHandler(deps.DB)
	customerHandler := handlers.NewCustomerHandler(deps.CustomerService)
	syncHandler := handlers.NewSyncHandler(deps.SyncService, logger)

	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	// --- Probes ---
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metricsHandler))

	// --- API v1 ---
	v1 := e.Group("/api/v1")

	var syncMiddleware []echo.MiddlewareFunc
	if deps.SyncLimiter != nil {
		syncMiddleware = append(syncMiddleware, deps.SyncLimiter.Middleware())
	}
	v1.POST("/sync", syncHandler.TriggerSync, syncMiddleware...)
	v1.GET("/sync/runs", syncHandler.ListSyncRuns)
	v1.GET("/sync/runs/:id", syncHandler.GetSyncRun)

	v1.GET("/customers", customerHandler.ListCustomers)
	v1.GET("/customers/:customer_id", customerHandler.GetCustomer)

	return e
}
