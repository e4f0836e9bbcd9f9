package domain

import "errors"

// Business-rule errors. All are raised before any state mutation; a
// rejected operation leaves the session exactly as it was.
var (
	// ErrValidation marks malformed input to a write.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAmount rejects non-positive currency amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds rejects withdraws beyond the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientQuantity rejects sells beyond the held quantity.
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrNotFound marks an absent entity on lookup. Repositories translate
	// a missing user to (nil, nil) instead; this sentinel is for callers
	// that require the entity to exist.
	ErrNotFound = errors.New("not found")
)
