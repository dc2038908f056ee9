package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vibe-commerce/internal/domain"
	"vibe-commerce/internal/repository"
	"vibe-commerce/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeStoreProduct mirrors the upstream Fake Store API schema. Price is
// kept raw because the feed has been observed to send both numbers and
// strings; anything non-numeric maps to 0.
type fakeStoreProduct struct {
	Title       string          `json:"title"`
	Price       json.RawMessage `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

// Importer bulk-replaces the product catalog from an external feed. It
// is a one-shot batch process; the API never writes to the catalog.
type Importer struct {
	productRepo repository.ProductRepository
	catalog     service.CatalogService
	client      *http.Client
	feedURL     string
	logger      *zap.Logger
}

// New creates a new Importer
func New(productRepo repository.ProductRepository, catalog service.CatalogService, feedURL string, logger *zap.Logger) *Importer {
	return &Importer{
		productRepo: productRepo,
		catalog:     catalog,
		client:      &http.Client{Timeout: 30 * time.Second},
		feedURL:     feedURL,
		logger:      logger,
	}
}

// Run fetches the feed, maps it into catalog products, and loads the
// result in one transaction. When clearFirst is set the existing
// catalog is dropped; cart rows referencing dropped products are NOT
// cleaned up and render with price 0 until the user removes them.
func (i *Importer) Run(ctx context.Context, clearFirst bool) (int, error) {
	feed, err := i.fetchFeed(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	products := make([]*domain.Product, 0, len(feed))
	for _, fp := range feed {
		products = append(products, &domain.Product{
			ID:          uuid.New(),
			Name:        fp.Title,
			Price:       coercePrice(fp.Price),
			ImageURL:    fp.Image,
			Description: fp.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	count, err := i.productRepo.ReplaceAll(ctx, products, clearFirst)
	if err != nil {
		return 0, fmt.Errorf("failed to load products: %w", err)
	}

	if err := i.catalog.InvalidateCache(ctx); err != nil {
		i.logger.Warn("Failed to invalidate catalog cache after import", zap.Error(err))
	}

	i.logger.Info("Catalog import completed",
		zap.Int("products", count),
		zap.Bool("cleared_first", clearFirst),
	)

	return count, nil
}

func (i *Importer) fetchFeed(ctx context.Context) ([]fakeStoreProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product feed returned %s", resp.Status)
	}

	var feed []fakeStoreProduct
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("unexpected product feed format: %w", err)
	}

	return feed, nil
}

func coercePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}
	return 0
}
