package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"slidecast/config"
	"slidecast/handlers"
	"slidecast/logger"
	"slidecast/narration"
	"slidecast/renderer"
	"slidecast/services/slides"
	"slidecast/validation"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zlog.Logger = appLogger

	accessLogConfig, err := logger.NewAccessLogConfig(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize access log: %v", err)
	}

	if cfg.Narration.APIKey == "" {
		appLogger.Warn().Msg("OPENAI_API_KEY is not set; narration requests will fail")
	}

	// Initialize renderer (shared headless browser)
	rodRenderer, err := renderer.NewRodRenderer(cfg.Renderer, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize renderer: %v", err)
	}

	// Initialize narration generator
	generator := narration.NewOpenAIGenerator(cfg.Narration)

	// Initialize validator
	validator := validation.NewValidator(cfg)

	// Initialize slide service with its pacing policy
	pacer := rate.NewLimiter(rate.Every(cfg.Batch.PacingInterval), 1)
	slideService := slides.NewService(
		rodRenderer,
		generator,
		validator,
		pacer,
		slides.Config{
			MaxSlides:       cfg.Batch.MaxSlides,
			SingleTextLimit: cfg.Narration.SingleTextLimit,
			BatchTextLimit:  cfg.Narration.BatchTextLimit,
		},
		appLogger,
	)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: !cfg.Debug,
		AppName:               "slidecast",
	})

	// Setup middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.Debug,
	}))
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return uuid.New().String()
		},
	}))
	app.Use(fiberLogger.New(*accessLogConfig))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORS.AllowedOrigins, ","),
		AllowMethods: strings.Join(cfg.CORS.AllowedMethods, ","),
		AllowHeaders: strings.Join(cfg.CORS.AllowedHeaders, ","),
	}))

	// Setup routes
	slideHandler := handlers.NewSlideHandler(slideService)

	app.Post("/api/analyze-slide", slideHandler.AnalyzeSlide)
	app.Post("/api/analyze-slides-batch", slideHandler.AnalyzeSlidesBatch)

	// Health check
	app.Get("/health", handlers.NewHealthHandler(cfg))

	// Static files
	app.Static("/", cfg.StaticDir)

	// Graceful shutdown setup
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		appLogger.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			appLogger.Error().Err(err).Msg("Server shutdown error")
		}

		if err := rodRenderer.Close(); err != nil {
			appLogger.Error().Err(err).Msg("Browser shutdown error")
		}
	}()

	// Start server
	serverAddr := ":" + cfg.ServerPort
	appLogger.Info().Str("addr", serverAddr).Msg("Server starting")

	if err := app.Listen(serverAddr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
