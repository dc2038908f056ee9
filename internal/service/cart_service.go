package service

import (
	"context"
	"errors"
	"fmt"

	"vibe-commerce/internal/domain"
	"vibe-commerce/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidProductID = errors.New("invalid productId")
	ErrInvalidItemID    = errors.New("invalid id")
	ErrInvalidQty       = errors.New("qty must be >= 1")
)

// CartService defines the interface for cart business logic. Every
// operation takes the owning user ID as a parameter so that a real
// identity layer can supply it later without touching cart logic.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*domain.PricedCart, error)
	AddToCart(ctx context.Context, userID, productID string, qty int) (*domain.CartItem, error)
	UpdateQty(ctx context.Context, userID, itemID string, qty int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart builds the priced view of a user's cart: all line items are
// fetched, the referenced products are batch-fetched in one query, and
// the two are joined by product ID. A line item whose product has been
// deleted stays in the view with price 0 and no name; that is deliberate
// degraded-mode rendering, not an error.
func (s *cartService) GetCart(ctx context.Context, userID string) (*domain.PricedCart, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart products: %w", err)
	}

	productMap := make(map[uuid.UUID]*domain.Product, len(products))
	for _, product := range products {
		productMap[product.ID] = product
	}

	cart := &domain.PricedCart{Items: make([]domain.PricedCartItem, 0, len(items))}
	for _, item := range items {
		var name string
		var price float64
		if product, ok := productMap[item.ProductID]; ok {
			name = product.Name
			price = product.Price
		}

		subtotal := price * float64(item.Qty)
		cart.Items = append(cart.Items, domain.PricedCartItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      name,
			Price:     price,
			Qty:       item.Qty,
			Subtotal:  subtotal,
		})
		cart.Total += subtotal
	}

	return cart, nil
}

// AddToCart merges a product into the user's cart. If a line item for
// (user, product) already exists its quantity is incremented, otherwise
// a new one is created. The merge is a single atomic upsert in the
// repository; concurrent adds never produce duplicate rows. A qty below
// 1 falls back to 1.
func (s *cartService) AddToCart(ctx context.Context, userID, productID string, qty int) (*domain.CartItem, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrInvalidProductID
	}

	if qty < 1 {
		qty = 1
	}

	if _, err := s.productRepo.FindByID(ctx, pid); err != nil {
		if err == repository.ErrProductNotFound {
			return nil, repository.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	item, err := s.cartRepo.Upsert(ctx, userID, pid, qty)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	return item, nil
}

// UpdateQty sets the quantity of a line item owned by the user. There is
// no decrement-to-delete path here: qty below 1 is rejected, not treated
// as a delete.
func (s *cartService) UpdateQty(ctx context.Context, userID, itemID string, qty int) (*domain.CartItem, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, ErrInvalidItemID
	}

	if qty < 1 {
		return nil, ErrInvalidQty
	}

	item, err := s.cartRepo.UpdateQty(ctx, id, userID, qty)
	if err != nil {
		if err == repository.ErrCartItemNotFound {
			return nil, repository.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return item, nil
}

// RemoveItem deletes a line item owned by the user
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return ErrInvalidItemID
	}

	if err := s.cartRepo.Delete(ctx, id, userID); err != nil {
		if err == repository.ErrCartItemNotFound {
			return repository.ErrCartItemNotFound
		}
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}
