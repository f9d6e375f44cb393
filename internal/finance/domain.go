package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// MovementType enumerates the two sides of the cash book.
type MovementType string

const (
	// MovementIncome is money entering a cash register.
	MovementIncome MovementType = "INCOME"
	// MovementExpense is money leaving a cash register.
	MovementExpense MovementType = "EXPENSE"
)

// Movement is one audited cash-register entry.
type Movement struct {
	ID         int64           `json:"id"`
	Date       time.Time       `json:"date"`
	Type       MovementType    `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Concept    string          `json:"concept"`
	Note       *string         `json:"note,omitempty"`
	UserID     *int64          `json:"user_id,omitempty"`
	SaleID     *int64          `json:"sale_id,omitempty"`
	SupplierID *int64          `json:"supplier_id,omitempty"`
	CashboxID  int64           `json:"cashbox_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

// MovementInput describes a movement to record.
type MovementInput struct {
	Date       time.Time       `json:"date" validate:"required"`
	Type       MovementType    `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Amount     decimal.Decimal `json:"amount"`
	Concept    string          `json:"concept" validate:"required"`
	Note       *string         `json:"note,omitempty"`
	UserID     *int64          `json:"user_id,omitempty"`
	SaleID     *int64          `json:"sale_id,omitempty"`
	SupplierID *int64          `json:"supplier_id,omitempty"`
	CashboxID  int64           `json:"cashbox_id" validate:"required,gt=0"`
}

// MovementPatch carries optional header changes; nil fields keep current values.
type MovementPatch struct {
	Date       *time.Time       `json:"date,omitempty"`
	Type       *MovementType    `json:"type,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Concept    *string          `json:"concept,omitempty"`
	Note       *string          `json:"note,omitempty"`
	UserID     *int64           `json:"user_id,omitempty"`
	SaleID     *int64           `json:"sale_id,omitempty"`
	SupplierID *int64           `json:"supplier_id,omitempty"`
	CashboxID  *int64           `json:"cashbox_id,omitempty"`
}

// ListFilter narrows movement listings.
type ListFilter struct {
	From       *time.Time
	To         *time.Time
	CashboxID  *int64
	Type       *MovementType
	SupplierID *int64
	UserID     *int64
	SaleID     *int64
}

// ErrNotFound indicates a missing movement.
var ErrNotFound = fmt.Errorf("finance: movement %w", shared.ErrNotFound)

// normalizeSupplier drops the supplier reference on income movements;
// suppliers only attach to expenses.
func normalizeSupplier(t MovementType, supplierID *int64) *int64 {
	if supplierID == nil || *supplierID == 0 {
		return nil
	}
	if t == MovementIncome {
		return nil
	}
	return supplierID
}
