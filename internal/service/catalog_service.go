package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vibe-commerce/internal/domain"
	"vibe-commerce/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const catalogCacheKey = "catalog:products"

// CatalogService defines the interface for catalog reads. The catalog is
// read-mostly (written only by the import process), so the product list
// is served through a Redis cache with a short TTL.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	InvalidateCache(ctx context.Context) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService. The cache
// client may be nil, in which case every read goes to the database.
func NewCatalogService(productRepo repository.ProductRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// ListProducts returns all products ordered by creation time ascending.
// Cache errors are logged and fall through to the database; a broken
// cache must never break catalog reads.
func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, catalogCacheKey).Bytes()
		if err == nil {
			var products []*domain.Product
			if err := json.Unmarshal(cached, &products); err == nil {
				return products, nil
			}
			s.logger.Warn("Discarding malformed catalog cache entry", zap.Error(err))
		} else if err != redis.Nil {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(ctx, catalogCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("Catalog cache write failed", zap.Error(err))
			}
		}
	}

	return products, nil
}

// InvalidateCache drops the cached product list. Called by the importer
// after a bulk reload.
func (s *catalogService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, catalogCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}
