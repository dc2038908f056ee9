package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vibe-commerce/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for cart line item data access.
// Every mutation is filtered by user_id alongside the target id; that
// filter is the only ownership check in the system and must stay.
type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.CartItem, error)
	Upsert(ctx context.Context, userID string, productID uuid.UUID, qty int) (*domain.CartItem, error)
	UpdateQty(ctx context.Context, id uuid.UUID, userID string, qty int) (*domain.CartItem, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	DeleteAllByUser(ctx context.Context, userID string) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// ListByUser retrieves all cart line items belonging to a user
func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, qty, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []*domain.CartItem{}
	for rows.Next() {
		item := &domain.CartItem{}
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Qty,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// Upsert inserts a new line item or increments the quantity of the
// existing one for (user_id, product_id). The unique constraint on that
// pair is the serialization point: concurrent adds for the same product
// always merge into one row, never duplicate it.
func (r *cartRepository) Upsert(ctx context.Context, userID string, productID uuid.UUID, qty int) (*domain.CartItem, error) {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET qty = cart_items.qty + EXCLUDED.qty, updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, product_id, qty, created_at, updated_at
	`

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, query, uuid.New(), userID, productID, qty, time.Now()).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Qty,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return item, nil
}

// UpdateQty sets the quantity of the line item matching both id and
// user_id. A row owned by another user is indistinguishable from an
// absent one; both return ErrCartItemNotFound.
func (r *cartRepository) UpdateQty(ctx context.Context, id uuid.UUID, userID string, qty int) (*domain.CartItem, error) {
	query := `
		UPDATE cart_items
		SET qty = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, product_id, qty, created_at, updated_at
	`

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, query, id, userID, qty, time.Now()).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Qty,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item qty: %w", err)
	}

	return item, nil
}

// Delete removes the line item matching both id and user_id
func (r *cartRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// DeleteAllByUser removes every line item belonging to a user. Deleting
// an already-empty cart is not an error.
func (r *cartRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
