package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vibe-commerce/internal/domain"
	"vibe-commerce/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrMissingCustomer = errors.New("name and email are required")
)

// CheckoutItem is one entry of the cart snapshot submitted at checkout.
// Price and qty come from the client and are not re-verified against the
// live catalog; the receipt total is whatever the snapshot says it is.
// Known gap, kept on purpose: re-pricing here would change the external
// contract.
type CheckoutItem struct {
	ProductID string  `json:"productId"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

// UnmarshalJSON coerces non-numeric price/qty values to 0 instead of
// rejecting the snapshot.
func (c *CheckoutItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductID string          `json:"productId"`
		Price     json.RawMessage `json:"price"`
		Qty       json.RawMessage `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ProductID = raw.ProductID
	c.Price = coerceNumber(raw.Price)
	c.Qty = int(coerceNumber(raw.Qty))
	return nil
}

func coerceNumber(raw json.RawMessage) float64 {
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

// CheckoutService defines the interface for checkout business logic
type CheckoutService interface {
	Checkout(ctx context.Context, userID string, items []CheckoutItem, name, email string) (*domain.Receipt, error)
}

type checkoutService struct {
	cartRepo repository.CartRepository
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(cartRepo repository.CartRepository) CheckoutService {
	return &checkoutService{cartRepo: cartRepo}
}

// Checkout validates the submitted snapshot, mints a receipt with a
// fresh ID, and clears the user's persisted cart in full, regardless of
// what the snapshot contained. The receipt is returned once and never
// stored. An empty snapshot is allowed; missing name or email is not.
func (s *checkoutService) Checkout(ctx context.Context, userID string, items []CheckoutItem, name, email string) (*domain.Receipt, error) {
	if name == "" || email == "" {
		return nil, ErrMissingCustomer
	}

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Qty)
	}

	receipt := &domain.Receipt{
		ID:        "rcpt_" + uuid.NewString(),
		Name:      name,
		Email:     email,
		Total:     total,
		Timestamp: time.Now().UTC(),
	}

	if err := s.cartRepo.DeleteAllByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart after checkout: %w", err)
	}

	return receipt, nil
}
