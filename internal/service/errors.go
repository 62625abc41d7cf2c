package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrLocationRequired  = errors.New("location is required")
	ErrLocationInactive  = errors.New("location is inactive")
	ErrItemInactive      = errors.New("item is inactive")
	ErrEmptyTransaction  = errors.New("transaction has no line items")
	ErrAlreadyCancelled  = errors.New("transaction is already cancelled")
	ErrInvalidMovement   = errors.New("invalid movement type for adjustment")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrUserInactive      = errors.New("user account is disabled")
	ErrImportRunning     = errors.New("an import is already running")
	ErrNothingToImport   = errors.New("file contains no data rows")
)

// QuantityError reports a line that violates the category quantity rules.
type QuantityError struct {
	SKU    string
	Reason string
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("invalid quantity for %s: %s", e.SKU, e.Reason)
}

// InsufficientStockError carries everything the client needs to render the
// failure: which item, how much is on hand and in which unit, how much was
// asked for.
type InsufficientStockError struct {
	SKU       string
	Name      string
	Available decimal.Decimal
	Requested decimal.Decimal
	Unit      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"Insufficient stock for %s (%s): available %s %s, requested %s %s",
		e.SKU, e.Name,
		e.Available.StringFixed(3), e.Unit,
		e.Requested.StringFixed(3), e.Unit,
	)
}
