package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Registers the generated OpenAPI document with swag.
	_ "github.com/d1sgu1sed/DogCollars/docs"
	"github.com/d1sgu1sed/DogCollars/internal/api/handler"
	"github.com/d1sgu1sed/DogCollars/internal/api/middleware"
	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth  ports.AuthService
	Users ports.UserService
	Dogs  ports.DogService
	Tasks ports.TaskService

	JWTSecret string

	// LoginLimiter throttles POST /login/token. Nil disables limiting.
	LoginLimiter middleware.Limiter

	// Readiness lists the dependencies probed by GET /health/ready.
	Readiness map[string]handler.Pinger

	// Registerer and Gatherer back the HTTP metrics. Nil means the
	// Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "dogcollars",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	dogHandler := handler.NewDogHandler(d.Dogs)
	taskHandler := handler.NewTaskHandler(d.Tasks)
	healthHandler := handler.NewHealthHandler(d.Readiness)

	// --- Public routes ---
	e.POST("/user", authHandler.Register)
	e.POST("/login/token", authHandler.Login, middleware.RateLimit(d.LoginLimiter, d.Log))

	// --- Health probes and tooling (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	authed := []echo.MiddlewareFunc{middleware.Auth(d.JWTSecret), middleware.Actor(d.Users)}
	superAdmin := middleware.RequireRole(domain.RoleSuperAdmin)

	users := e.Group("/user", authed...)
	users.PATCH("/location", userHandler.UpdateLocation)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.PATCH("/:id/admin_privilege", userHandler.GrantAdmin, superAdmin)
	users.DELETE("/:id/admin_privilege", userHandler.RevokeAdmin, superAdmin)

	dogs := e.Group("/dog", authed...)
	dogs.POST("", dogHandler.Create)
	dogs.GET("", dogHandler.GetByName)
	dogs.GET("/:id", dogHandler.Get)
	dogs.PATCH("/:id", dogHandler.Update)
	dogs.DELETE("/:id", dogHandler.Delete)
	dogs.GET("/:id/location", dogHandler.GetLocation)
	dogs.PATCH("/:id/location", dogHandler.UpdateLocation)

	tasks := e.Group("/task", authed...)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/active", taskHandler.ListActive)
	tasks.GET("/completed", taskHandler.ListCompleted)
	tasks.GET("/dog/:dog_id", taskHandler.ListForDog)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.POST("/:id/close", taskHandler.Close)

	return e
}
