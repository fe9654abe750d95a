// Command refresh performs a one-shot warm of the quote and FX caches for
// every symbol held in the ledger. Intended for cron or CI pipelines that
// prefer a process over the pipeline HTTP endpoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"divtrack/internal/config"
	"divtrack/internal/database"
	"divtrack/internal/ledger"
	"divtrack/internal/logger"
	"divtrack/internal/marketdata"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Refresh error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	db := dbManager.DB()
	provider := marketdata.NewYahooProvider(&http.Client{Timeout: appConfig.ProviderTimeout})
	marketService := marketdata.NewService(db, provider, marketdata.Options{
		TTL:               appConfig.QuoteTTL,
		MinInterval:       appConfig.ProviderMinInterval,
		DefaultUSDCADRate: appConfig.DefaultUSDCADRate,
	})

	store := ledger.NewStore(db)
	symbols, err := store.DistinctSymbols(nil)
	if err != nil {
		return fmt.Errorf("failed to list held symbols: %w", err)
	}

	refreshed, err := marketService.RefreshAll(context.Background(), symbols)
	if err != nil {
		return fmt.Errorf("cache refresh failed: %w", err)
	}

	logger.Get().Infow("cache refresh completed",
		"symbols", len(symbols),
		"refreshed", refreshed,
	)
	return nil
}
