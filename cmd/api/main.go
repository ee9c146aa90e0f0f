package main

import (
	"fmt"
	"net/http"
	"os"

	"nestegg/internal/blob"
	"nestegg/internal/config"
	"nestegg/internal/database"
	"nestegg/internal/handlers"
	"nestegg/internal/logger"
	"nestegg/internal/middleware"
	"nestegg/internal/store"
	"nestegg/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Nestegg API
// @version         1.0
// @description     Nestegg tracks a personal investment portfolio: assets grouped into categories, derived metrics, and compound-interest forecasts.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	// Select the portfolio backend. Local mode serves the single on-device
	// portfolio from blob files; cloud mode serves per-user portfolios from
	// Postgres.
	var provider store.Provider
	switch appConfig.StorageMode {
	case config.StorageModeLocal:
		blobs, err := blob.NewFileStore(appConfig.LocalDataDir)
		if err != nil {
			return fmt.Errorf("failed to open local data directory: %w", err)
		}
		localStore, err := store.NewLocalStore(blobs)
		if err != nil {
			return fmt.Errorf("failed to load local portfolio: %w", err)
		}
		provider = store.NewLocalProvider(localStore)
		log.Infof("Storage mode: local (data dir %s)", appConfig.LocalDataDir)

	default:
		dbManager, err := database.NewManager(database.NewConfig(appConfig))
		if err != nil {
			return fmt.Errorf("failed to create database manager: %w", err)
		}
		if err := dbManager.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		provider = store.NewCloudProvider(dbManager.DB())
		log.Info("Storage mode: cloud")
	}

	// Initialize handlers
	portfolioHandler := handlers.NewPortfolioHandler(provider)
	assetHandler := handlers.NewAssetHandler(provider)
	categoryHandler := handlers.NewCategoryHandler(provider)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group. In local mode every request maps to the single on-device
	// portfolio; in cloud mode identity comes from the bearer token.
	v1 := router.Group("/api/v1")
	if appConfig.StorageMode == config.StorageModeLocal {
		v1.Use(middleware.LocalIdentity())
	} else {
		v1.Use(middleware.IdentityMiddleware())
	}

	// Portfolio routes
	v1.GET("/portfolio", portfolioHandler.GetOverview)
	v1.GET("/history", portfolioHandler.GetHistory)
	v1.GET("/forecast", portfolioHandler.GetForecast)
	v1.GET("/contributions/reminders", portfolioHandler.GetReminders)

	// Asset routes
	assets := v1.Group("/assets")
	assets.GET("", portfolioHandler.ListAssets)
	assets.POST("", assetHandler.CreateAsset)
	assets.PATCH("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.POST("/:id/contributions", assetHandler.AddContribution)

	// Category routes
	categories := v1.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	log.Infof("Starting Nestegg backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
