package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one persisted row binding a user, a product reference, and a
// quantity. At most one row exists per (user_id, product_id) pair.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Qty       int       `json:"qty" db:"qty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PricedCartItem is a cart row joined against the current catalog price.
// If the referenced product no longer exists, Name is empty and Price is 0.
type PricedCartItem struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name,omitempty"`
	Price     float64   `json:"price"`
	Qty       int       `json:"qty"`
	Subtotal  float64   `json:"subtotal"`
}

// PricedCart is the read-time view of a user's cart. It is computed on
// every read and never persisted.
type PricedCart struct {
	Items []PricedCartItem `json:"items"`
	Total float64          `json:"total"`
}
