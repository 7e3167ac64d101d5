package pos

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds surfaced by the sales core. Handlers map these to the
// machine-readable codes returned in API envelopes.
var (
	ErrItemNotFound        = errors.New("item not found")
	ErrInvalidLineItem     = errors.New("invalid line item")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrEmptyTransaction    = errors.New("transaction has no items")
	ErrStoreFailure        = errors.New("store failure")
)

// StockShortageError carries available vs requested quantities for diagnostics.
type StockShortageError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *StockShortageError) Unwrap() error { return ErrInsufficientStock }

// PaymentShortageError carries required vs provided amounts.
type PaymentShortageError struct {
	Required float64
	Provided float64
}

func (e *PaymentShortageError) Error() string {
	return fmt.Sprintf("insufficient payment: required %.2f, provided %.2f", e.Required, e.Provided)
}

func (e *PaymentShortageError) Unwrap() error { return ErrInsufficientPayment }

// ErrorCode maps a core error to the machine-readable code used by the API layer.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return "ITEM_NOT_FOUND"
	case errors.Is(err, ErrInvalidLineItem):
		return "INVALID_LINE_ITEM"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrInsufficientPayment):
		return "INSUFFICIENT_PAYMENT"
	case errors.Is(err, ErrEmptyTransaction):
		return "EMPTY_TRANSACTION"
	default:
		return "STORE_FAILURE"
	}
}
