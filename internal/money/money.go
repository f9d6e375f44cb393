// Package money centralises fixed-point monetary arithmetic. Every computed
// amount (line subtotals, tax, discount, totals, receivable balances, payment
// amounts) passes through Quantize before it is stored or compared.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Max is the largest value any monetary field may hold.
var Max = decimal.RequireFromString("99999999.99")

var (
	ErrNegative = fmt.Errorf("money: negative amount: %w", shared.ErrValidation)
	ErrTooLarge = fmt.Errorf("money: amount exceeds maximum: %w", shared.ErrValidation)
)

// Quantize rounds to two decimal places. Monetary fields are non-negative, so
// decimal's round-half-away-from-zero equals round-half-up here.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MulQty multiplies a unit price by an integer quantity and quantizes.
func MulQty(price decimal.Decimal, qty int64) decimal.Decimal {
	return Quantize(price.Mul(decimal.NewFromInt(qty)))
}

// Check validates a non-negative monetary amount against the configured maximum.
func Check(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrNegative
	}
	if d.GreaterThan(Max) {
		return ErrTooLarge
	}
	return nil
}

// CheckPositive validates a strictly positive amount, e.g. a payment.
func CheckPositive(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("money: amount must be positive: %w", shared.ErrInvalidAmount)
	}
	if d.GreaterThan(Max) {
		return ErrTooLarge
	}
	return nil
}
