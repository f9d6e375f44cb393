package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Sale is one point-of-sale transaction with its line items.
type Sale struct {
	ID            int64           `json:"id"`
	Date          time.Time       `json:"date"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	IsCredit      bool            `json:"is_credit"`
	Active        bool            `json:"active"`
	Note          *string         `json:"note,omitempty"`
	InvoiceNumber *string         `json:"invoice_number,omitempty"`
	ClientID      *uuid.UUID      `json:"client_id,omitempty"`
	UserID        *int64          `json:"user_id,omitempty"`
	Lines         []Line          `json:"lines"`
}

// Line is one sale line item. Lines are replaced wholesale on edit, never
// patched individually.
type Line struct {
	ID        int64           `json:"id"`
	SaleID    int64           `json:"sale_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`

	// Joined for listings.
	ProductName *string `json:"product_name,omitempty"`
}

// LineRequest describes one requested line item. An explicit subtotal
// overrides the quantity times unit price computation.
type LineRequest struct {
	ProductID int64            `json:"product_id" validate:"required,gt=0"`
	Quantity  int64            `json:"quantity" validate:"required,gte=1"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Subtotal  *decimal.Decimal `json:"subtotal,omitempty"`
}

// CreateRequest describes a sale to record.
type CreateRequest struct {
	Date          *time.Time      `json:"date,omitempty"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	IsCredit      bool            `json:"is_credit"`
	Active        *bool           `json:"active,omitempty"`
	Note          *string         `json:"note,omitempty"`
	InvoiceNumber *string         `json:"invoice_number,omitempty"`
	ClientID      *uuid.UUID      `json:"client_id,omitempty"`
	UserID        *int64          `json:"user_id,omitempty"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Lines         []LineRequest   `json:"lines" validate:"required,min=1,dive"`
}

// UpdateRequest carries partial sale changes. PaymentMethod and IsCredit are
// tri-state: omitted keeps the current value, an explicit null clears the
// method (which forces credit). The remaining pointer fields keep the current
// value when nil. A non-nil Lines replaces the full line set, an empty slice
// included.
type UpdateRequest struct {
	Date          *time.Time       `json:"date,omitempty"`
	PaymentMethod Optional[string] `json:"payment_method"`
	IsCredit      Optional[bool]   `json:"is_credit"`
	Active        *bool            `json:"active,omitempty"`
	Note          *string          `json:"note,omitempty"`
	InvoiceNumber *string          `json:"invoice_number,omitempty"`
	ClientID      *uuid.UUID       `json:"client_id,omitempty"`
	UserID        *int64           `json:"user_id,omitempty"`
	Tax           *decimal.Decimal `json:"tax,omitempty"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	Lines         *[]LineRequest   `json:"lines,omitempty"`
}

// LinesRequest replaces the full line set of a sale.
type LinesRequest struct {
	Lines []LineRequest `json:"lines" validate:"required,dive"`
}

// StatusRequest voids or reactivates a sale.
type StatusRequest struct {
	Active bool `json:"active"`
}

// SummaryRow is one row of the date-filtered sales summary.
type SummaryRow struct {
	ID            int64           `json:"id"`
	Date          time.Time       `json:"date"`
	InvoiceNumber *string         `json:"invoice_number,omitempty"`
	Total         decimal.Decimal `json:"total"`
	IsCredit      bool            `json:"is_credit"`
	ClientName    *string         `json:"client_name,omitempty"`
	UserName      *string         `json:"user_name,omitempty"`
}

var (
	// ErrNotFound indicates a missing sale.
	ErrNotFound = fmt.Errorf("sales: sale %w", shared.ErrNotFound)
	// ErrPaymentMethodRequired rejects non-credit sales without a payment method.
	ErrPaymentMethodRequired = fmt.Errorf("sales: payment method required when not credit: %w", shared.ErrValidation)
	// ErrInvalidLine rejects malformed line items.
	ErrInvalidLine = fmt.Errorf("sales: invalid line: %w", shared.ErrValidation)
	// ErrNegativeTotal rejects sales whose discount exceeds subtotal plus tax.
	ErrNegativeTotal = fmt.Errorf("sales: negative total: %w", shared.ErrValidation)
)
