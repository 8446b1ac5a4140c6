// Package server implements the HTTP server command.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	authapp "netreq/internal/application/auth"
	locationapp "netreq/internal/application/location"
	notificationapp "netreq/internal/application/notification"
	requestapp "netreq/internal/application/request"
	resourceapp "netreq/internal/application/resource"
	userapp "netreq/internal/application/user"
	"netreq/internal/infrastructure/auth"
	"netreq/internal/infrastructure/config"
	"netreq/internal/infrastructure/database"
	"netreq/internal/infrastructure/migration"
	"netreq/internal/infrastructure/repository"
	httprouter "netreq/internal/interfaces/http"
	"netreq/internal/shared/db"
	"netreq/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the network request HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server", "environment", env)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	logMigrationVersion()

	log := logger.NewLogger()
	gdb := database.Get()

	userRepo := repository.NewUserRepository(gdb)
	locationRepo := repository.NewLocationRepository(gdb)
	resourceRepo := repository.NewResourceRepository(gdb)
	requestRepo := repository.NewRequestRepository(gdb)
	notificationRepo := repository.NewNotificationRepository(gdb)
	txManager := db.NewTransactionManager(gdb)

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpHours)
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)

	services := httprouter.Services{
		Auth:         authapp.NewService(userRepo, hasher, jwtService, log),
		User:         userapp.NewService(userRepo, hasher, log),
		Location:     locationapp.NewService(locationRepo, log),
		Resource:     resourceapp.NewService(resourceRepo, log),
		Request:      requestapp.NewService(locationRepo, resourceRepo, requestRepo, notificationRepo, txManager, log),
		Notification: notificationapp.NewService(notificationRepo, log),
	}

	redisClient := newRedisClient(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	router := httprouter.NewRouter(cfg, services, jwtService, redisClient, log)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

// newRedisClient connects to Redis for rate limiting. A failed connection is
// tolerated: rate limiting is disabled rather than blocking startup.
func newRedisClient(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "error", err)
		client.Close()
		return nil
	}

	return client
}

func logMigrationVersion() {
	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		logger.Warn("failed to get migration scripts path", "error", err)
		return
	}

	strategy := migration.NewGooseStrategy(scriptsPath, logger.NewLogger())
	version, err := strategy.GetVersion(database.Get())
	if err != nil {
		logger.Warn("failed to check migration status", "error", err)
		return
	}
	logger.Info("current migration version", "version", version)
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
