// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lane-analytics/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Sessions SessionManager
	Profiles *models.ProfileSet
	Defaults ReportDefaults
	Logger   *zap.Logger
	Version  string
	Engine   string
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Profiles ProfileHandler
	Reports  ReportHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Version, deps.Engine),
		Profiles: NewProfileHandler(deps.Profiles),
		Reports:  NewReportHandler(deps.Sessions, deps.Profiles, deps.Defaults, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers, gatherer prometheus.Gatherer) {
	apiGroup := e.Group("/api")
	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.GET("/profiles", handlers.Profiles.HandleGetProfiles)

	reports := apiGroup.Group("/reports")
	reports.POST("", handlers.Reports.HandleCreateReport)
	reports.PUT("/:id", handlers.Reports.HandleReplaceReport)
	reports.GET("/:id", handlers.Reports.HandleGetReport)
	reports.DELETE("/:id", handlers.Reports.HandleDeleteReport)
	reports.GET("/:id/summary", handlers.Reports.HandleGetSummary)
	reports.GET("/:id/origins", handlers.Reports.HandleGetOrigins)
	reports.GET("/:id/destinations", handlers.Reports.HandleGetDestinations)
	reports.GET("/:id/lanes", handlers.Reports.HandleGetLanes)
	reports.GET("/:id/matrix", handlers.Reports.HandleGetMatrix)
	reports.GET("/:id/msgpack", handlers.Reports.HandleGetReportMsgpack)
	reports.POST("/:id/keepalive", handlers.Reports.HandleSessionKeepAlive)

	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// SetupMiddleware configures the error handler, validator and common middleware
func SetupMiddleware(e *echo.Echo, logger *zap.Logger, development, requestLogging bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e.HTTPErrorHandler = NewErrorHandler(logger, development)
	e.Validator = NewRequestValidator()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))
	if requestLogging {
		e.Use(RequestLogger(logger))
	}
}

// RequestLogger logs one structured line per request. Health checks,
// metrics scrapes and keep-alives are skipped.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	log := logger.Named("http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/api/health" ||
				path == "/metrics" ||
				strings.HasSuffix(path, "/keepalive")
		},
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
