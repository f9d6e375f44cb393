package stock

import (
	"fmt"
	"time"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Record tracks the on-hand quantity for one product. Rows are owned by
// inventory management; the sales path only mutates them through ApplyDeltas.
type Record struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	Quantity    int64     `json:"quantity"`
	MinQuantity int64     `json:"min_quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   *int64    `json:"updated_by,omitempty"`
	CreatedBy   *int64    `json:"created_by,omitempty"`
	ProductName *string   `json:"product_name,omitempty"`
}

// CreateInput describes a new stock record.
type CreateInput struct {
	ProductID   int64  `json:"product_id" validate:"required,gt=0"`
	Quantity    int64  `json:"quantity" validate:"gte=0"`
	MinQuantity int64  `json:"min_quantity" validate:"gte=0"`
	CreatedBy   *int64 `json:"created_by,omitempty"`
}

var (
	// ErrNotFound indicates no stock record exists for a product.
	ErrNotFound = fmt.Errorf("stock: record %w", shared.ErrNotFound)
	// ErrInsufficient indicates a delta would drive a quantity below zero.
	ErrInsufficient = fmt.Errorf("stock: %w", shared.ErrInsufficientStock)
)
