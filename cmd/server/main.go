package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yourorg/pixieauth/internal/auth"
	"github.com/yourorg/pixieauth/internal/config"
	"github.com/yourorg/pixieauth/internal/handlers"
	"github.com/yourorg/pixieauth/internal/logging"
	"github.com/yourorg/pixieauth/internal/routes"
	"github.com/yourorg/pixieauth/internal/store"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ============================================================================
	// STORE
	// ============================================================================
	users, err := store.Open(ctx, cfg.DB, logger)
	if err != nil {
		logger.Fatal("store unavailable", zap.Error(err))
	}
	defer func() {
		if err := users.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}()
	logger.Info("store ready", zap.String("driver", cfg.DB.Driver), zap.Bool("schema_skipped", cfg.DB.SkipSchema))

	if !cfg.RedactListingPassword {
		logger.Warn("GET /auth/users and /auth/users/search return password hashes; set LISTING_REDACT_PASSWORD=true to blank them")
	}

	// ============================================================================
	// HTTP
	// ============================================================================
	svc := auth.NewService(users, auth.NewBcryptHasher(cfg.BcryptCost), auth.UUIDIssuer{}, logger)

	app := fiber.New(fiber.Config{
		AppName:               "pixieauth " + version,
		DisableStartupMessage: cfg.IsProduction(),
	})
	routes.Register(app, routes.Deps{
		Auth:        handlers.NewAuthHandler(svc, cfg.RedactListingPassword, logger),
		Status:      handlers.NewStatusHandler(users, cfg.DB.Driver, version),
		CORSOrigins: cfg.CORSAllowOrigins,
		Logger:      logger,
	})

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.ListenAddr()), zap.String("env", cfg.Env))
	if err := app.Listen(cfg.ListenAddr()); err != nil {
		logger.Error("listen", zap.Error(err))
	}
	logger.Info("server stopped")
}
