// Package devserver is the development API server the access layer talks
// to: the forum REST surface on echo, backed by the core services.
package devserver

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/segmentation-fault/forum/docs"
	"github.com/segmentation-fault/forum/internal/core/ports"
	"github.com/segmentation-fault/forum/internal/core/service"
	"github.com/segmentation-fault/forum/internal/devserver/handler"
	"github.com/segmentation-fault/forum/internal/devserver/middleware"
	"github.com/segmentation-fault/forum/internal/pkg/metrics"
)

// Config holds the settings the services and the auth middleware share.
type Config struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	OneTimeTTL     time.Duration
	FrontendURL    string
}

// Deps are the stores the server runs on. Mongo and Redis are only used by
// the readiness probe and may be nil when the in-memory stores are in use.
type Deps struct {
	Repo     ports.ForumRepository
	Tokens   ports.OneTimeTokenStore
	Notifier ports.Notifier
	Mongo    *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger
	// Metrics may be nil. Its collectors must be registered with the
	// default registry to appear on /metrics.
	Metrics  *metrics.Server
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg Config, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	reg := prometheus.NewRegistry()
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "segfault",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authService := service.NewAuthService(deps.Repo, deps.Tokens, deps.Notifier, service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
		OneTimeTTL:     cfg.OneTimeTTL,
		FrontendURL:    cfg.FrontendURL,
		Log:            deps.Log,
		Metrics:        deps.Metrics,
	})
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(service.NewUserService(deps.Repo))
	postHandler := handler.NewPostHandler(service.NewPostService(deps.Repo, deps.Metrics))
	commentHandler := handler.NewCommentHandler(service.NewCommentService(deps.Repo, deps.Notifier, cfg.FrontendURL, deps.Log, deps.Metrics))
	auth := middleware.Auth(cfg.JWTSecret, authService.Authenticate)

	// --- Auth routes ---
	a := e.Group("/auth")
	a.POST("/login", authHandler.Login)
	a.POST("/sign-up", authHandler.SignUp)
	a.POST("/verify-email", authHandler.VerifyEmail)
	a.POST("/forgot-password", authHandler.ForgotPassword)
	a.POST("/reset-password", authHandler.ResetPassword)
	a.GET("/", authHandler.Me, auth)

	// --- Users ---
	u := e.Group("/users")
	u.POST("/", userHandler.Create)
	u.GET("/:user_id/image", userHandler.Image)
	u.GET("/", userHandler.List, auth)
	u.GET("/:user_id", userHandler.Get, auth)
	u.PUT("/:user_id", userHandler.Update, auth)
	u.DELETE("/:user_id", userHandler.Delete, auth)
	u.POST("/:user_id/image", userHandler.UploadImage, auth)

	// --- Posts ---
	p := e.Group("/posts", auth)
	p.GET("/", postHandler.List)
	p.POST("/", postHandler.Create)
	p.GET("/:post_id", postHandler.Get)
	p.PUT("/:post_id", postHandler.Update)
	p.DELETE("/:post_id", postHandler.Delete)
	p.GET("/:post_id/comments", postHandler.Comments)
	p.GET("/:post_id/votes", postHandler.Votes)
	p.GET("/:post_id/vote", postHandler.Vote)
	p.POST("/:post_id/vote", postHandler.CastVote)

	// --- Comments ---
	cm := e.Group("/comments", auth)
	cm.GET("/", commentHandler.List)
	cm.POST("/", commentHandler.Create)
	cm.GET("/:comment_id", commentHandler.Get)
	cm.PUT("/:comment_id", commentHandler.Update)
	cm.DELETE("/:comment_id", commentHandler.Delete)
	cm.GET("/:comment_id/votes", commentHandler.Votes)
	cm.GET("/:comment_id/vote", commentHandler.Vote)
	cm.POST("/:comment_id/vote", commentHandler.CastVote)

	// --- Health probes, metrics and API docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are the stores up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/docs/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
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
