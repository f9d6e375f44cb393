// Package shared holds cross-cutting sentinels and helpers used by every domain.
package shared

import "errors"

// Error taxonomy. Domain packages wrap these with their own context so
// callers can match with errors.Is and the HTTP layer can map a status.
var (
	// ErrNotFound indicates a referenced resource is absent.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientStock indicates a delta would drive a quantity negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidState indicates a mutation against a record whose state forbids it.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidAmount indicates a non-positive monetary amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAlreadySettled indicates a payment against a zero-balance receivable.
	ErrAlreadySettled = errors.New("already settled")
	// ErrExcessPayment indicates a payment larger than the outstanding balance.
	ErrExcessPayment = errors.New("excess payment")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
)
