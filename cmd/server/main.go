package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/sheetsby/metadata-api/internal/client"
	"github.com/sheetsby/metadata-api/internal/config"
	"github.com/sheetsby/metadata-api/internal/generator"
	"github.com/sheetsby/metadata-api/internal/handler"
	"github.com/sheetsby/metadata-api/internal/middleware"
	"github.com/sheetsby/metadata-api/internal/service"
	ws "github.com/sheetsby/metadata-api/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client (rate limiting only)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available, rate limiting disabled: %v", err)
	}

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize external clients
	sheetClient := client.NewSheetClient(&cfg.Sheet)
	screenshotClient := client.NewScreenshotClient(&cfg.Screenshot)
	aiClient := client.NewAIClient(&cfg.AI)
	if !aiClient.IsConfigured() {
		log.Println("Info: AI backend not configured, streaming mock tags")
	}
	if !screenshotClient.IsConfigured() {
		log.Println("Info: Screenshot service not configured, serving placeholder image")
	}

	// Initialize services
	metadataService := service.NewMetadataService()
	previewService := service.NewPreviewService(sheetClient, screenshotClient)
	tagStreamer := service.NewTagStreamer(aiClient)

	// Tag generation sessions broadcast every snapshot to their subscribers
	tagManager := generator.NewManager(tagStreamer, hub.BroadcastTags)

	// Initialize handlers
	metadataHandler := handler.NewMetadataHandler(metadataService, validate)
	previewHandler := handler.NewPreviewHandler(previewService)
	tagsHandler := handler.NewTagsHandler(tagManager, metadataService, validate)

	rateLimiter := middleware.NewRateLimiter(redisClient)
	debounceQuiet := time.Duration(cfg.Preview.DebounceMS) * time.Millisecond

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Base URL - timestamp
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"ai":         aiClient.IsConfigured(),
				"sheet":      sheetClient.IsConfigured(),
				"screenshot": screenshotClient.IsConfigured(),
				"redis":      redisClient.Ping(c.Context()).Err() == nil,
			},
		})
	})

	// API routes
	api := app.Group("/api")

	// Description composition
	api.Post("/description", metadataHandler.Describe)

	// Preview lookups
	api.Get("/mmf", previewHandler.Sheet)
	api.Get("/screenshot", rateLimiter.ScreenshotLimit(cfg.RateLimit.ScreenshotPerMin), previewHandler.Screenshot)

	// Streaming tag generation (raw text stream, original contract)
	api.Post("/tags-generator", rateLimiter.TagsLimit(cfg.RateLimit.TagsPerMin), tagsHandler.Stream)

	// Tag generation sessions
	tags := api.Group("/tags")
	tags.Post("/generate", rateLimiter.TagsLimit(cfg.RateLimit.TagsPerMin), tagsHandler.Generate)
	tags.Get("/status/:sessionId", tagsHandler.Status)
	tags.Get("/result/:sessionId", tagsHandler.Result)
	tags.Post("/cancel/:sessionId", tagsHandler.Cancel)
	tags.Post("/clear/:sessionId", tagsHandler.Clear)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/tags/:sessionId", websocket.New(func(c *websocket.Conn) {
		sessionID := c.Params("sessionId")
		hub.HandleConnection(c, sessionID)
	}))

	app.Get("/ws/preview", websocket.New(func(c *websocket.Conn) {
		ws.ServePreview(c, previewService, debounceQuiet)
	}))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
