package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finsight/internal/assistant/config"
	delivery "finsight/internal/assistant/delivery/http"
	"finsight/internal/assistant/repository"
	"finsight/internal/assistant/service"
	"finsight/pkg/logger"
	"finsight/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the financial assistant service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Financial Assistant Service", logger.Field("name", cfg.App.Name))

	// Initialize Redis (optional query cache)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisCfg := redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}
		redisClient, err = redis.NewClient(redisCfg)
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
	}

	// Initialize Gemini token-counting client
	genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini client", logger.ErrorField(err))
	}

	// Initialize repositories
	geminiRepo := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	openAIRepo := repository.NewOpenAIRepository(cfg, appLogger)
	var finnhubRepo repository.FinnhubRepository
	var alphaVantageRepo repository.AlphaVantageRepository
	if cfg.Finnhub.Enabled {
		finnhubRepo = repository.NewFinnhubRepository(cfg, appLogger)
		alphaVantageRepo = repository.NewAlphaVantageRepository(cfg, appLogger)
	}
	newsFeedRepo := repository.NewNewsFeedRepository(cfg, appLogger)

	// Initialize services
	querySvc := service.NewQueryService(cfg, appLogger, geminiRepo, openAIRepo, finnhubRepo, redisClient)
	marketSvc := service.NewMarketService(cfg, appLogger, geminiRepo, finnhubRepo, alphaVantageRepo, newsFeedRepo)

	// Start market refresh schedule
	if err := marketSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start market refresh", logger.ErrorField(err))
	}
	defer marketSvc.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	assistantHandler := delivery.NewAssistantHandler(appLogger, querySvc)
	assistantHandler.RegisterRoutes(apiV1)

	marketHandler := delivery.NewMarketHandler(appLogger, marketSvc)
	marketHandler.RegisterRoutes(apiV1)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "finsight"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing finsight CLI: %s\n", err)
		os.Exit(1)
	}
}
