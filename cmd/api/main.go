package main

import (
	"fmt"
	"net/http"
	"os"

	"divtrack/internal/config"
	"divtrack/internal/database"
	"divtrack/internal/equity"
	"divtrack/internal/handlers"
	"divtrack/internal/ledger"
	"divtrack/internal/logger"
	"divtrack/internal/marketdata"
	"divtrack/internal/middleware"
	"divtrack/internal/services"
	"divtrack/internal/validator"

	"github.com/gin-gonic/gin"
)

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

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Market data: Yahoo provider behind the TTL cache
	db := dbManager.DB()
	provider := marketdata.NewYahooProvider(&http.Client{Timeout: appConfig.ProviderTimeout})
	marketService := marketdata.NewService(db, provider, marketdata.Options{
		TTL:               appConfig.QuoteTTL,
		MinInterval:       appConfig.ProviderMinInterval,
		DefaultUSDCADRate: appConfig.DefaultUSDCADRate,
	})

	// Ledger store and engines
	store := ledger.NewStore(db)
	builder := equity.NewBuilder(marketService)
	curveCache, err := equity.NewCurveCache()
	if err != nil {
		return fmt.Errorf("failed to create equity curve cache: %w", err)
	}

	// Initialize services
	portfolioService := services.NewPortfolioService(store, marketService)
	equityService := services.NewEquityService(store, builder, curveCache)
	dividendService := services.NewDividendService(store)
	ledgerService := services.NewLedgerService(db, store)
	marketDataService := services.NewMarketDataService(store, marketService)

	// Initialize handlers
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	equityHandler := handlers.NewEquityHandler(equityService)
	dividendHandler := handlers.NewDividendHandler(dividendService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	pipelineHandler := handlers.NewPipelineHandler(marketDataService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

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

	// API v1 group
	v1 := router.Group("/api/v1")

	// Ledger routes
	v1.GET("/accounts", ledgerHandler.GetAccounts)
	v1.GET("/transactions", ledgerHandler.GetTransactions)

	// Portfolio routes
	portfolio := v1.Group("/portfolio")
	portfolio.GET("/positions", portfolioHandler.GetPositions)
	portfolio.GET("/summary", portfolioHandler.GetSummary)
	portfolio.GET("/equity-curve", equityHandler.GetEquityCurve)

	// Dividend routes
	v1.GET("/dividends/projections", dividendHandler.GetProjections)

	// Pipeline routes (machine-to-machine)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/refresh-quotes", pipelineHandler.RefreshQuotes)

	log.Infof("Starting divtrack API server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
