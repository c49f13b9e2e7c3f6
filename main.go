package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/logs"
	"storefront/internal/media"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logs.New(cfg.Log, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	db, err := database.Open(cfg.Database, appLogger, cfg.Log.Level == "debug")
	if err != nil {
		appLogger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		appLogger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	host, err := media.OpenBucketHost(ctx, cfg.Media.BucketURL, cfg.Media.URLEndpoint)
	if err != nil {
		appLogger.Error("failed to open media bucket", slog.Any("error", err))
		os.Exit(1)
	}
	defer host.Close()

	// --- Optional RabbitMQ event publishing ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		}, appLogger)
		if err != nil {
			appLogger.Error("failed to initialize RabbitMQ client", slog.Any("error", err))
			os.Exit(1)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeEvents(auditEvent(appLogger)); err != nil {
			appLogger.Warn("failed to start event consumer", slog.Any("error", err))
		}
	} else {
		appLogger.Info("RABBITMQ_URL not set, events will not be published")
	}

	app := newApp(cfg, db, host, publisher, appLogger)

	appLogger.Info("starting server", slog.String("port", cfg.AppPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			appLogger.Error("server failed", slog.Any("error", err))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	appLogger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("error during shutdown", slog.Any("error", err))
	}
	appLogger.Info("server gracefully stopped")
}

// newApp builds the Fiber application with every route registered.
func newApp(cfg *config.Config, db *gorm.DB, host media.Host, publisher services.EventPublisher, appLogger *slog.Logger) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, appLogger)
	storeService := services.NewStoreService(storeRepo, host, publisher, appLogger)
	productService := services.NewProductService(productRepo, host, services.NewSellerAuthorizer(storeRepo), publisher, appLogger)

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimitMB * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	api := app.Group("/api")
	authOptional := middleware.AuthOptional(authService, appLogger)
	authRequired := middleware.AuthRequired(authService, appLogger)

	handlers.NewAuthHandler(authService, appLogger).RegisterRoutes(api)
	handlers.NewStoreHandler(storeService, appLogger).RegisterRoutes(api, authOptional, authRequired)
	handlers.NewProductHandler(productService, appLogger).RegisterRoutes(api, authOptional)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// auditEvent logs every store and product event for the audit trail.
func auditEvent(appLogger *slog.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var payload map[string]any
		if err := json.Unmarshal(msg.Body, &payload); err != nil {
			return fmt.Errorf("malformed %s event: %w", msg.RoutingKey, err)
		}
		appLogger.Info("event received",
			slog.String("routing_key", msg.RoutingKey),
			slog.Any("payload", payload),
		)
		return nil
	}
}
