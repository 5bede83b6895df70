package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/u9200347/event-discovery/internal/api/http"
	"github.com/u9200347/event-discovery/internal/cache"
	"github.com/u9200347/event-discovery/internal/config"
	"github.com/u9200347/event-discovery/internal/events"
	"github.com/u9200347/event-discovery/internal/events/providers"
	"github.com/u9200347/event-discovery/internal/scheduler"
)

func main() {
	// Load configuration (godotenv runs inside Load).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Query cache with the configured TTL.
	queryCache := cache.NewMemoryCache(cfg.CacheTTL)

	// Only providers with credentials present are constructed.
	provs := providers.FromCredentials(httpClient, cfg.Providers)

	// Core service orchestrating providers and cache.
	service := events.NewService(queryCache, provs, cfg.ProviderTimeout)

	// Fallback generator for when providers yield nothing.
	generator := events.NewGenerator(nil)

	// Scheduler that keeps popular cities' cache entries warm.
	sched := scheduler.New(cfg.PrewarmCities, cfg.PrewarmInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "event-discovery",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "event-discovery",
			"sources": service.Sources(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, generator)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
