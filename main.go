package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboss/config"
	"taskboss/handler"
	"taskboss/llm"
	"taskboss/logger"
	"taskboss/middleware"
	"taskboss/observability"
	"taskboss/prompts"
	"taskboss/repository"
	"taskboss/server"
	"taskboss/services"
	"taskboss/usecase"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLog); err != nil {
		appLog.Fatal("server exited", "error", err)
	}
	appLog.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, appLog *logger.Logger) error {
	gin.SetMode(cfg.GinMode)

	shutdownTracing, err := observability.InitOTel(ctx, appLog, observability.OtelConfig{
		Enabled:     cfg.OTELEnabled,
		ServiceName: observability.DefaultServiceName,
		Environment: cfg.GinMode,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		return err
	}

	db, err := repository.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	appLog.Info("database ready", "path", cfg.DatabasePath)

	blacklist := newBlacklist(ctx, cfg, appLog)
	defer blacklist.Close()

	registry, err := prompts.Default()
	if err != nil {
		return err
	}
	llmClient := llm.New(llm.Config{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
		Timeout: cfg.OpenAITimeout,
	})
	if !cfg.AIEnabled() {
		appLog.Warn("OPENAI_API_KEY not set, AI routes will answer 503")
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)
	users := repository.NewUserRepo(db)

	authService := usecase.NewAuthService(db, tokens, blacklist, appLog)
	taskService := usecase.NewTaskService(db, appLog)
	goalService := usecase.NewGoalService(repository.NewGoalRepo(db))
	userService := usecase.NewUserService(users, repository.NewPreferencesRepo(db))
	statsService := usecase.NewStatsService(repository.NewStatsRepo(db))
	aiService := usecase.NewAIService(llmClient, registry, db, usecase.AIConfig{
		DefaultModel:  cfg.OpenAIModel,
		FallbackModel: cfg.OpenAIFallbackModel,
	}, appLog)

	health := handler.NewHealthHandler(appLog, users)
	if redisBL, ok := blacklist.(*services.RedisTokenBlacklist); ok {
		health.WithCache(redisBL)
	}

	router := server.NewRouter(server.RouterConfig{
		Log:            appLog,
		AuthMiddleware: middleware.NewAuthMiddleware(appLog, authService),
		AuthHandler:    handler.NewAuthHandler(appLog, authService),
		UserHandler:    handler.NewUserHandler(appLog, userService),
		TaskHandler:    handler.NewTaskHandler(appLog, taskService),
		GoalHandler:    handler.NewGoalHandler(appLog, goalService),
		StatsHandler:   handler.NewStatsHandler(appLog, statsService),
		LLMHandler:     handler.NewLLMHandler(appLog, aiService),
		HealthHandler:  health,
		CORSOrigins:    cfg.CORSOrigins,
		MaxRequestSize: cfg.MaxRequestSize,
		Tracing:        cfg.OTELEnabled,
		ServiceName:    observability.DefaultServiceName,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return shutdownTracing(shutdownCtx)
	})
	return g.Wait()
}

// newBlacklist prefers Redis when REDIS_URL is set and falls back to the
// in-process blacklist when it is unset or unreachable.
func newBlacklist(ctx context.Context, cfg config.Config, appLog *logger.Logger) services.TokenBlacklist {
	if cfg.RedisURL == "" {
		return services.NewMemoryTokenBlacklist()
	}
	bl, err := services.NewRedisTokenBlacklist(ctx, cfg.RedisURL)
	if err != nil {
		appLog.Warn("redis unavailable, using in-memory token blacklist", "error", err)
		return services.NewMemoryTokenBlacklist()
	}
	appLog.Info("redis token blacklist connected")
	return bl
}
