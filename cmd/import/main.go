package main

import (
	"context"
	"fmt"
	"os"

	"vibe-commerce/internal/config"
	"vibe-commerce/internal/database"
	"vibe-commerce/internal/importer"
	"vibe-commerce/internal/logger"
	"vibe-commerce/internal/repository"
	"vibe-commerce/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// One-shot batch job: replaces the product catalog from the Fake Store
// feed and invalidates the catalog cache. Run it whenever the catalog
// needs refreshing; the API itself never writes products.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer dbService.Close()

	if err := database.RunMigrations(dbService.DB(), "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unreachable, skipping cache invalidation", zap.Error(err))
		redisClient = nil
	}

	productRepo := repository.NewProductRepository(dbService.DB())
	catalogService := service.NewCatalogService(productRepo, redisClient, cfg.Redis.CatalogCacheTTL, log)

	imp := importer.New(productRepo, catalogService, cfg.Importer.FakeStoreURL, log)

	count, err := imp.Run(context.Background(), cfg.Importer.ClearProducts)
	if err != nil {
		log.Error("Catalog import failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Imported products from Fake Store", zap.Int("count", count))
}
