package server

import (
	"taskboss/handler"
	"taskboss/logger"
	"taskboss/middleware"
	"taskboss/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *middleware.AuthMiddleware
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	TaskHandler    *handler.TaskHandler
	GoalHandler    *handler.GoalHandler
	StatsHandler   *handler.StatsHandler
	LLMHandler     *handler.LLMHandler
	HealthHandler  *handler.HealthHandler

	CORSOrigins    []string
	MaxRequestSize int64
	// Tracing adds the otelgin middleware under ServiceName.
	Tracing     bool
	ServiceName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	utils.InitValidator()

	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(middleware.RequestTracingMiddleware())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders())
	if cfg.MaxRequestSize > 0 {
		r.Use(middleware.RequestSizeLimiter(cfg.MaxRequestSize))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.HealthCheck)
		}
		if cfg.AuthHandler != nil {
			auth := api.Group("/auth")
			auth.POST("/register", cfg.AuthHandler.Register)
			auth.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			users := protected.Group("/users/me")
			users.GET("", cfg.UserHandler.GetMe)
			users.PUT("", cfg.UserHandler.UpdateMe)
			users.GET("/preferences", cfg.UserHandler.GetPreferences)
			users.PUT("/preferences", cfg.UserHandler.UpdatePreferences)
		}

		if cfg.TaskHandler != nil {
			tasks := protected.Group("/tasks")
			tasks.GET("", cfg.TaskHandler.List)
			tasks.POST("", cfg.TaskHandler.Create)
			tasks.GET("/:id", cfg.TaskHandler.Get)
			tasks.PUT("/:id", cfg.TaskHandler.Update)
			tasks.DELETE("/:id", cfg.TaskHandler.Delete)
		}

		if cfg.GoalHandler != nil {
			goals := protected.Group("/goals")
			goals.GET("", cfg.GoalHandler.List)
			goals.POST("", cfg.GoalHandler.Create)
			goals.GET("/:id", cfg.GoalHandler.Get)
			goals.PUT("/:id", cfg.GoalHandler.Update)
			goals.DELETE("/:id", cfg.GoalHandler.Delete)
		}

		if cfg.StatsHandler != nil {
			stats := protected.Group("/user-stats")
			stats.GET("", cfg.StatsHandler.GetUserStats)
			stats.PUT("", cfg.StatsHandler.UpdateUserStats)
			stats.GET("/:id", cfg.StatsHandler.GetUserStatsByID)
			stats.PUT("/:id", cfg.StatsHandler.UpdateUserStats)
		}

		if cfg.LLMHandler != nil {
			protected.POST("/llm/invoke", cfg.LLMHandler.Invoke)
			protected.POST("/chat", cfg.LLMHandler.Chat)
			protected.POST("/ai/quote", cfg.LLMHandler.Quote)
			protected.POST("/ai/task-advice", cfg.LLMHandler.TaskAdvice)
		}
	}

	return r
}
