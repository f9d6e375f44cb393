package cashbox

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Cashbox is one physical cash register.
type Cashbox struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Closure is one register session: opened with a starting balance, closed
// with the income/expense totals accumulated between the two timestamps.
type Closure struct {
	ID             int64            `json:"id"`
	CashboxID      int64            `json:"cashbox_id"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
	TotalIncome    decimal.Decimal  `json:"total_income"`
	TotalExpense   decimal.Decimal  `json:"total_expense"`
	Note           *string          `json:"note,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// CreateInput describes a cashbox to register.
type CreateInput struct {
	Name           string          `json:"name" validate:"required,max=150"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// Patch carries optional cashbox changes.
type Patch struct {
	Name           *string          `json:"name,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
}

// OpenInput starts a register session.
type OpenInput struct {
	OpenedAt       *time.Time       `json:"opened_at,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
}

// CloseInput ends a register session.
type CloseInput struct {
	ClosedAt *time.Time `json:"closed_at,omitempty"`
	Note     *string    `json:"note,omitempty"`
}

var (
	// ErrNotFound indicates a missing cashbox.
	ErrNotFound = fmt.Errorf("cashbox: cashbox %w", shared.ErrNotFound)
	// ErrClosureNotFound indicates a missing closure.
	ErrClosureNotFound = fmt.Errorf("cashbox: closure %w", shared.ErrNotFound)
	// ErrAlreadyClosed rejects closing a session twice.
	ErrAlreadyClosed = fmt.Errorf("cashbox: closure already closed: %w", shared.ErrInvalidState)
	// ErrSessionOpen rejects opening a session while another one is open.
	ErrSessionOpen = fmt.Errorf("cashbox: another session is open: %w", shared.ErrInvalidState)
)
