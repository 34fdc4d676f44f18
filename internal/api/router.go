package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/eventhub/event-management/docs"
	"github.com/eventhub/event-management/internal/api/handler"
	"github.com/eventhub/event-management/internal/api/middleware"
	"github.com/eventhub/event-management/internal/core/domain"
	"github.com/eventhub/event-management/internal/core/ports"
)

// Dependencies groups everything the HTTP layer needs from the core.
type Dependencies struct {
	Auth      ports.AuthService
	Bootstrap ports.BootstrapService
	Events    ports.EventService
	Attendees ports.AttendeeService

	Tokens     middleware.TokenParser
	Identities middleware.PrincipalResolver

	// ReadinessChecks are run by GET /health/ready, keyed by dependency name.
	ReadinessChecks map[string]handler.DependencyCheck

	// Registry receives the HTTP request metrics and backs /metrics. Nil
	// means the Prometheus default registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(deps.Registry)))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Bootstrap)
	eventHandler := handler.NewEventHandler(deps.Events)
	attendeeHandler := handler.NewAttendeeHandler(deps.Attendees)

	requireAuth := middleware.Auth(deps.Tokens, deps.Identities)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/register-first-admin", authHandler.RegisterFirstAdmin)
	auth.POST("/register-admin", authHandler.RegisterAdmin, requireAuth, adminOnly)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Event routes ---
	events := e.Group("/api/events", requireAuth)
	events.GET("", eventHandler.List)
	events.GET("/my-registered", eventHandler.ListRegistered)
	events.GET("/creator/:creatorId", eventHandler.ListByCreator)
	events.GET("/:id", eventHandler.Get)
	events.POST("", eventHandler.Create)
	events.PUT("/:id", eventHandler.Update)
	events.DELETE("/:id", eventHandler.Delete, adminOnly)

	// --- Attendee routes ---
	attendees := e.Group("/api/attendees", requireAuth)
	attendees.POST("/register/:eventId", attendeeHandler.Register)
	attendees.DELETE("/cancel/:attendeeId", attendeeHandler.Cancel)
	attendees.GET("/event/:eventId", attendeeHandler.ListByEvent)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.ReadinessChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Observability ---
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "events",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error()
			case v.Status >= 400:
				evt = log.Warn()
			}
			evt.Err(v.Error).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
