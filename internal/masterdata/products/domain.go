package products

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Product is one sellable item.
type Product struct {
	ID         int64           `json:"id"`
	Barcode    *string         `json:"barcode,omitempty"`
	Name       string          `json:"name"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	Cost       decimal.Decimal `json:"cost"`
	Margin     *decimal.Decimal `json:"margin,omitempty"`
	Tax        decimal.Decimal `json:"tax"`
	Active     bool            `json:"active"`
	CategoryID *int64          `json:"category_id,omitempty"`
	CreatedBy  *int64          `json:"created_by,omitempty"`
	UpdatedBy  *int64          `json:"updated_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateInput describes a product to register.
type CreateInput struct {
	Barcode    *string         `json:"barcode,omitempty"`
	Name       string          `json:"name" validate:"required,max=255"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	Cost       decimal.Decimal `json:"cost"`
	Tax        decimal.Decimal `json:"tax"`
	CategoryID *int64          `json:"category_id,omitempty"`
	CreatedBy  *int64          `json:"created_by,omitempty"`
}

// Patch carries optional product changes.
type Patch struct {
	Barcode    *string          `json:"barcode,omitempty"`
	Name       *string          `json:"name,omitempty"`
	SalePrice  *decimal.Decimal `json:"sale_price,omitempty"`
	Cost       *decimal.Decimal `json:"cost,omitempty"`
	Tax        *decimal.Decimal `json:"tax,omitempty"`
	Active     *bool            `json:"active,omitempty"`
	CategoryID *int64           `json:"category_id,omitempty"`
	UpdatedBy  *int64           `json:"updated_by,omitempty"`
}

var (
	// ErrNotFound indicates a missing product.
	ErrNotFound = fmt.Errorf("products: product %w", shared.ErrNotFound)
	// ErrDuplicateBarcode rejects a second product with the same barcode.
	ErrDuplicateBarcode = fmt.Errorf("products: barcode already registered: %w", shared.ErrDuplicate)
)
