package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a purchasable item in the catalog. Products are
// written only by the import process and are read-only during normal
// operation.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
