package receivables

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Status tracks how far a receivable has been collected.
type Status string

const (
	// StatusPending means nothing has been paid yet.
	StatusPending Status = "PENDING"
	// StatusPartial means some payments exist but a balance remains.
	StatusPartial Status = "PARTIAL"
	// StatusPaid means the balance reached zero.
	StatusPaid Status = "PAID"
	// StatusVoid marks an annulled receivable; it accepts no payments.
	StatusVoid Status = "VOID"
)

// Receivable is an open client debt, usually born from a credit sale.
type Receivable struct {
	ID        int64           `json:"id"`
	SaleID    *int64          `json:"sale_id,omitempty"`
	ClientID  *uuid.UUID      `json:"client_id,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Balance   decimal.Decimal `json:"balance"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Joined for listings.
	ClientName    *string `json:"client_name,omitempty"`
	InvoiceNumber *string `json:"invoice_number,omitempty"`
}

// Payment is one immutable abono against a receivable. Corrections are made
// with compensating entries, never by editing a payment.
type Payment struct {
	ID           int64           `json:"id"`
	ReceivableID int64           `json:"receivable_id"`
	MovementID   int64           `json:"movement_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreateInput describes a manually opened receivable.
type CreateInput struct {
	SaleID   *int64          `json:"sale_id,omitempty"`
	ClientID *uuid.UUID      `json:"client_id,omitempty"`
	Total    decimal.Decimal `json:"total"`
}

// PaymentInput describes one abono to apply.
type PaymentInput struct {
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date,omitempty"`
	Concept   string          `json:"concept,omitempty"`
	Note      *string         `json:"note,omitempty"`
	UserID    *int64          `json:"user_id,omitempty"`
	SaleID    *int64          `json:"sale_id,omitempty"`
	CashboxID int64           `json:"cashbox_id" validate:"required,gt=0"`
}

// PaymentResult returns the recorded payment together with the updated
// receivable so callers see the new balance without a second read.
type PaymentResult struct {
	Payment    Payment    `json:"payment"`
	Receivable Receivable `json:"receivable"`
}

// Patch carries optional header changes; nil fields keep current values.
type Patch struct {
	ClientID *uuid.UUID       `json:"client_id,omitempty"`
	Total    *decimal.Decimal `json:"total,omitempty"`
	Balance  *decimal.Decimal `json:"balance,omitempty"`
	Status   *Status          `json:"status,omitempty"`
}

// ListFilter narrows receivable listings.
type ListFilter struct {
	ClientID *uuid.UUID
	SaleID   *int64
	Status   *Status
}

var (
	// ErrNotFound indicates a missing receivable.
	ErrNotFound = fmt.Errorf("receivables: receivable %w", shared.ErrNotFound)
	// ErrVoid rejects payments against an annulled receivable.
	ErrVoid = fmt.Errorf("receivables: receivable is void: %w", shared.ErrInvalidState)
	// ErrAlreadySettled rejects payments once the balance is zero.
	ErrAlreadySettled = fmt.Errorf("receivables: %w", shared.ErrAlreadySettled)
	// ErrExcessPayment rejects payments above the outstanding balance.
	ErrExcessPayment = fmt.Errorf("receivables: %w", shared.ErrExcessPayment)
	// ErrBalanceExceedsTotal rejects patches that would owe more than the total.
	ErrBalanceExceedsTotal = fmt.Errorf("receivables: balance exceeds total: %w", shared.ErrInvalidState)
)

// DeriveStatus computes the collection status from total and balance.
// VOID is never derived; it is only set explicitly.
func DeriveStatus(total, balance decimal.Decimal) Status {
	switch {
	case balance.LessThanOrEqual(decimal.Zero):
		return StatusPaid
	case balance.LessThan(total):
		return StatusPartial
	default:
		return StatusPending
	}
}
