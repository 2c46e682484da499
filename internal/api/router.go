package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/medportal/portal/internal/api/handler"
	"github.com/medportal/portal/internal/api/middleware"
	"github.com/medportal/portal/internal/core/ports"
	"github.com/medportal/portal/internal/pkg/config"
)

// Services are the use cases behind the portal screens.
type Services struct {
	Auth         ports.AuthService
	Profile      ports.ProfileService
	Records      ports.RecordService
	Appointments ports.AppointmentService
	Dashboard    ports.DashboardService
	Directory    ports.DirectoryService
}

// Deps is everything NewRouter wires together.
type Deps struct {
	Config   *config.Config
	Log      zerolog.Logger
	Durable  ports.DurableStore
	Services Services
	// Pingers are checked by /health/ready, keyed by dependency name.
	Pingers map[string]handler.Pinger
	// Registerer and Gatherer back the request metrics and /metrics.
	// Both default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "portal",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Probes, metrics, docs (no session) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Pingers).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Portal ---
	portal := e.Group("",
		middleware.Session(middleware.SessionConfig{
			Durable:    d.Durable,
			CookieName: d.Config.Session.Cookie,
			TTL:        d.Config.Session.TTL,
			Secure:     d.Config.Session.SecureCookie,
			Log:        d.Log,
		}),
		middleware.Chrome(),
	)

	authHandler := handler.NewAuthHandler(d.Services.Auth)
	portal.POST("/login", authHandler.Login)
	portal.POST("/register", authHandler.Register)
	portal.POST("/logout", authHandler.Logout)
	portal.GET("/session", authHandler.Session)

	private := portal.Group("", middleware.RequireAuth())

	dashboardHandler := handler.NewDashboardHandler(d.Services.Dashboard)
	private.GET("/dashboard", dashboardHandler.Show)
	private.GET("/doctor/dashboard", dashboardHandler.Show)
	private.GET("/admin/dashboard", dashboardHandler.Show)

	profileHandler := handler.NewProfileHandler(d.Services.Profile)
	private.GET("/profile", profileHandler.Get)
	private.PUT("/profile", profileHandler.Update)

	recordHandler := handler.NewRecordHandler(d.Services.Records)
	private.GET("/medical-records", recordHandler.List)
	private.POST("/medical-records", recordHandler.Create)
	private.PUT("/medical-records/:id", recordHandler.Update)
	private.DELETE("/medical-records/:id", recordHandler.Delete)

	appointmentHandler := handler.NewAppointmentHandler(d.Services.Appointments)
	private.GET("/appointments", appointmentHandler.List)
	private.GET("/doctor/appointments", appointmentHandler.List)
	private.GET("/admin/appointments", appointmentHandler.List)
	private.POST("/appointments", appointmentHandler.Create)
	private.GET("/appointments/:id", appointmentHandler.Detail)
	private.PUT("/appointments/:id/status", appointmentHandler.UpdateStatus)

	directoryHandler := handler.NewDirectoryHandler(d.Services.Directory)
	private.GET("/admin/doctors", directoryHandler.Doctors)
	private.GET("/admin/patients", directoryHandler.Patients)
	private.GET("/doctor/patients", directoryHandler.Patients)
	private.GET("/payments", directoryHandler.Payments)
	private.GET("/admin/payments", directoryHandler.Payments)
	private.GET("/admin/reports", directoryHandler.Reports)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
