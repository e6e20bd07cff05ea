package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/chatlens/chatlens/application/usecase"
	"github.com/chatlens/chatlens/infrastructure/adapter/postgres"
	"github.com/chatlens/chatlens/infrastructure/config"
	chatlenshttp "github.com/chatlens/chatlens/infrastructure/http"
	"github.com/chatlens/chatlens/infrastructure/http/handler"
	"github.com/chatlens/chatlens/infrastructure/http/middleware"
	"github.com/chatlens/chatlens/infrastructure/service/cache"
	"github.com/chatlens/chatlens/infrastructure/service/jwt"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
	"github.com/chatlens/chatlens/infrastructure/service/password"
	"github.com/chatlens/chatlens/infrastructure/service/ratelimit"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "chatlens",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	rateLimitService, err := ratelimit.NewRateLimitService(ratelimit.Config{
		Enabled:       cfg.RateLimitEnabled,
		RedisURL:      cfg.RedisURL,
		IPAttempts:    cfg.RateLimitIPAttempts,
		IPWindow:      cfg.RateLimitIPWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, structuredLogger)
	if err != nil {
		log.Fatalf("Failed to initialize rate limit service: %v", err)
	}

	cacheURL := ""
	if cfg.ReportCacheEnabled {
		cacheURL = cfg.RedisURL
	}
	reportCache, err := cache.NewRedisReportCache(cacheURL)
	if err != nil {
		log.Fatalf("Failed to initialize report cache: %v", err)
	}

	userRepo := postgres.NewUserRepositoryAdapter(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepositoryAdapter(db, cfg.RefreshTokenSalt)
	transcriptRepo := postgres.NewTranscriptRepositoryAdapter(db)

	tokenService, err := jwt.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(10)

	authUseCase := usecase.NewAuthUseCase(
		userRepo,
		refreshTokenRepo,
		tokenService,
		passwordService,
		rateLimitService,
		structuredLogger,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	userManagementUseCase := usecase.NewUserManagementUseCase(userRepo, passwordService, structuredLogger)
	dashboardUseCase := usecase.NewDashboardUseCase(transcriptRepo, reportCache, structuredLogger, cfg.ReportCacheTTL)
	feedbackUseCase := usecase.NewFeedbackUseCase(transcriptRepo, structuredLogger)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimitService, structuredLogger)

	server := chatlenshttp.NewServer(
		chatlenshttp.ServerConfig{
			Host:                 cfg.ServerHost,
			Port:                 cfg.ServerPort,
			ReadTimeout:          15 * time.Second,
			WriteTimeout:         15 * time.Second,
			IdleTimeout:          60 * time.Second,
			CORSEnabled:          cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0,
			CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
			CORSAllowCredentials: cfg.CORSAllowCredentials,
		},
		chatlenshttp.Handlers{
			Dashboard:      handler.NewDashboardHandler(dashboardUseCase, structuredLogger),
			Feedback:       handler.NewFeedbackHandler(feedbackUseCase, structuredLogger),
			Auth:           handler.NewAuthHandler(authUseCase),
			UserManagement: handler.NewUserManagementHandler(userManagementUseCase, structuredLogger),
		},
		authMiddleware,
		rateLimitMiddleware,
		structuredLogger,
	)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "Server failed to start", err, nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}
