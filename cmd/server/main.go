package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/furnaiture/backend/config"
	httpDelivery "github.com/furnaiture/backend/internal/delivery/http"
	"github.com/furnaiture/backend/internal/infrastructure/cache"
	"github.com/furnaiture/backend/internal/infrastructure/dataset"
	"github.com/furnaiture/backend/internal/logging"
	"github.com/furnaiture/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("dataset", cfg.Dataset.URL).
		Str("cache", cfg.Cache.Type).
		Msg("starting FurnAIture backend v1.0.0")

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache(cfg.Cache.SweepInterval)
	defer memoryCache.Close()

	source := dataset.NewSource(cfg.Dataset.URL, cfg.Dataset.FetchTimeout, dataset.BreakerConfig{
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout,
	})

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(
		source,
		memoryCache,
		usecase.CatalogServiceConfig{
			Threshold:          cfg.Search.Threshold,
			MaxResults:         cfg.Search.MaxResults,
			CacheTTL:           cfg.Search.CacheTTL,
			LoadTimeout:        cfg.Dataset.FetchTimeout,
			CountryTopN:        cfg.Analytics.CountryTopN,
			BrandTopN:          cfg.Analytics.BrandTopN,
			ColorTopN:          cfg.Analytics.ColorTopN,
			PageSize:           cfg.Analytics.PageSize,
			PlaceholderImage:   cfg.Dataset.PlaceholderImage,
			EnableDebugLogging: cfg.Search.Debug || cfg.Server.Environment == "development",
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed first load is served as "no data available" until a reload succeeds
	if _, err := catalogService.Load(ctx); err != nil {
		logging.Warn().Err(err).Msg("initial catalog load failed, serving without data")
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService)
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverLog := logging.With().Str("addr", server.Addr).Logger()

	go func() {
		serverLog.Info().Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLog.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	serverLog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		serverLog.Error().Err(err).Msg("graceful shutdown failed")
	}
}
