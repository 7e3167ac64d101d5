package pos

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/talkincode/toughpos/internal/domain"
)

// ValidationResult is the outcome of a successful pre-commit check.
type ValidationResult struct {
	Total  float64 `json:"total"`
	Change float64 `json:"change"`
}

// ValidatePayment checks cart feasibility against the current catalog
// snapshot and payment sufficiency. It performs only reads and never mutates
// stock, so it is safe to call repeatedly before commit. The result is
// advisory only: stock may change between validation and commit, and the
// committer re-verifies every line.
func (s *Service) ValidatePayment(ctx context.Context, cart []CartItem, tendered float64) (*ValidationResult, error) {
	if len(cart) == 0 {
		return nil, errors.Wrap(ErrInvalidLineItem, "empty cart")
	}
	if tendered < 0 || math.IsNaN(tendered) || math.IsInf(tendered, 0) {
		return nil, errors.Wrap(ErrInvalidLineItem, "invalid payment amount")
	}

	var total float64
	for _, item := range cart {
		if err := checkLineItem(item); err != nil {
			return nil, err
		}

		var product domain.Product
		err := s.db.WithContext(ctx).Where("id = ?", item.ProductID).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrItemNotFound, "product %d", item.ProductID)
		} else if err != nil {
			return nil, errors.Wrap(ErrStoreFailure, err.Error())
		}

		if item.Quantity > product.Stock {
			return nil, &StockShortageError{
				ProductID: item.ProductID,
				Available: product.Stock,
				Requested: item.Quantity,
			}
		}

		total += item.Price * float64(item.Quantity)
	}

	if tendered < total {
		return nil, &PaymentShortageError{Required: total, Provided: tendered}
	}

	return &ValidationResult{Total: total, Change: tendered - total}, nil
}
