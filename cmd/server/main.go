package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"school_management/internal/config"
	"school_management/internal/database"
	"school_management/internal/handler"
	"school_management/internal/logger"
	"school_management/internal/middleware"
	"school_management/internal/ratelimit"
	"school_management/internal/service"
	"school_management/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "console")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Info().Msg("no .env file found, relying on environment variables")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx := context.Background()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	if cfg.BootstrapSchema {
		if err := config.EnsureSchema(ctx, dbPool); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap schema")
		}
	}

	// --- Initialize Utilities ---
	jwtUtil, err := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}

	var loginLimiter middleware.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, login throttle fails open")
		}
		loginLimiter = ratelimit.NewFixedWindowLimiter(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow)
	}

	// --- Initialize Services ---
	provider := database.NewProvider(dbPool)
	deps := handler.RouterDeps{
		Auth:               service.NewAuthService(provider, jwtUtil),
		Users:              service.NewUserService(provider, cfg.DefaultStudentPassword),
		Courses:            service.NewCourseService(provider),
		Tokens:             jwtUtil,
		LoginLimiter:       loginLimiter,
		DB:                 dbPool,
		ExposeErrorDetails: cfg.ExposeErrorDetails,
	}

	if cfg.SandboxDB != nil {
		sandboxPool, err := config.ConnectDB(ctx, cfg.SandboxDB)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.SandboxDB.Name).Msg("failed to connect to sandbox database")
		}
		defer sandboxPool.Close()
		if cfg.BootstrapSchema {
			if err := config.EnsureSandboxSchema(ctx, sandboxPool); err != nil {
				log.Fatal().Err(err).Msg("failed to bootstrap sandbox schema")
			}
		}
		deps.Sandbox = service.NewSandboxService(database.NewProvider(sandboxPool))
	}

	router := handler.NewRouter(deps)

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
