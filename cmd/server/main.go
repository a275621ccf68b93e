package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/whatif-labs/milkyway-backend/internal/booksearch"
	"github.com/whatif-labs/milkyway-backend/internal/config"
	"github.com/whatif-labs/milkyway-backend/internal/database"
	"github.com/whatif-labs/milkyway-backend/internal/gotrue"
	"github.com/whatif-labs/milkyway-backend/internal/handlers"
	"github.com/whatif-labs/milkyway-backend/internal/logging"
	"github.com/whatif-labs/milkyway-backend/internal/middleware"
	"github.com/whatif-labs/milkyway-backend/internal/routes"
	"github.com/whatif-labs/milkyway-backend/internal/services"
	"github.com/whatif-labs/milkyway-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseServiceRoleKey == "" {
		slog.Error("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY environment variables are required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)}),
		pgLogHandler,
	)))

	// Log cleanup (configurable retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// External service clients
	storageClient := storage.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.ProfileImageBucket, cfg.ExternalTimeout)
	authClient := gotrue.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.ExternalTimeout)
	naverClient := booksearch.NewClient(cfg.NaverClientID, cfg.NaverClientSecret, cfg.ExternalTimeout)

	// Services
	nicknameService := services.NewNicknameService(database.DB)
	accountService := services.NewAccountService(database.DB, storageClient, authClient)
	memoService := services.NewMemoService(database.DB)
	notifyService := services.NewNotifyService(database.DB, cfg.FCMServiceAccountJSON, cfg.ExternalTimeout)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	nicknameHandler := handlers.NewNicknameHandler(nicknameService)
	accountHandler := handlers.NewAccountHandler(accountService)
	memoHandler := handlers.NewMemoHandler(memoService)
	notifyHandler := handlers.NewNotifyHandler(notifyService)
	searchHandler := handlers.NewSearchHandler(naverClient)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, healthHandler, nicknameHandler, accountHandler, memoHandler, notifyHandler, searchHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
