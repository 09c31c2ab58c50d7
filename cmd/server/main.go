package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/colormatch/backend/config"
	httpDelivery "github.com/colormatch/backend/internal/delivery/http"
	"github.com/colormatch/backend/internal/domain"
	"github.com/colormatch/backend/internal/infrastructure/cache"
	"github.com/colormatch/backend/internal/infrastructure/catalog"
	"github.com/colormatch/backend/internal/logger"
	"github.com/colormatch/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Printf("colormatch: %v", err)
		os.Exit(1)
	}
}

func run() error {
	envPath, err := config.LoadDotEnv()
	if err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	zl.Info("starting colormatch backend",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.String("dotenv", envPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	catalogCache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	source := catalog.NewSource(catalog.SourceConfig{
		Location:          cfg.Catalog.Location,
		Timeout:           cfg.Catalog.Timeout,
		MaxRetries:        cfg.Catalog.MaxRetries,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
	}, zl)
	loader := catalog.NewLoader(
		source,
		catalog.NewParser(cfg.Catalog.ProductBaseURL),
		catalogCache,
		cfg.Catalog.CacheTTL,
		zl,
	)
	zl.Info("catalog configured",
		zap.String("source", source.Kind()),
		zap.String("location", source.Location()),
		zap.Duration("cache_ttl", cfg.Catalog.CacheTTL),
	)

	// Initialize usecase layer
	normalizer := usecase.NewRequestNormalizer(cfg.Matching.Categories, cfg.Matching.EnableDebugLogging, zl.Named("normalizer"))
	matcher := usecase.NewMatchingService(usecase.MatchConfig{
		QuotaPerCategory:   cfg.Matching.QuotaPerCategory,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	}, zl.Named("matcher"))
	colorService := usecase.NewColorService(loader, normalizer, matcher, zl.Named("colors"))
	sessionService := usecase.NewSessionService(colorService, normalizer, cfg.Session.TTL, zl)

	zl.Info("matching configured",
		zap.Int("quota_per_category", cfg.Matching.QuotaPerCategory),
		zap.Strings("categories", normalizer.Categories()),
		zap.Bool("debug", cfg.Matching.EnableDebugLogging),
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(colorService, sessionService, zl.Named("http"))

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, zl.Named("http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newCache builds the catalog text cache selected by cache.type.
func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return rc, func() { _ = rc.Close() }, nil
	default:
		mc := cache.NewMemoryCache(10 * time.Minute)
		return mc, func() { _ = mc.Close() }, nil
	}
}
