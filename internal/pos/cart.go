package pos

import (
	"math"

	"github.com/pkg/errors"
)

// CartItem is one requested line of a sale. It exists only for the duration
// of a sale request; the boundary layer normalizes mixed payload shapes into
// this form before the core ever sees them.
type CartItem struct {
	ProductID int64   `json:"id,string"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// checkLineItem rejects lines with a missing product reference or
// non-sane numeric fields.
func checkLineItem(item CartItem) error {
	if item.ProductID == 0 {
		return errors.Wrap(ErrInvalidLineItem, "missing product reference")
	}
	if item.Quantity < 1 {
		return errors.Wrapf(ErrInvalidLineItem, "product %d: quantity must be >= 1", item.ProductID)
	}
	if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
		return errors.Wrapf(ErrInvalidLineItem, "product %d: invalid price", item.ProductID)
	}
	return nil
}
