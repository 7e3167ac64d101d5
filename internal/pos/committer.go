package pos

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/talkincode/toughpos/internal/domain"
	"github.com/talkincode/toughpos/pkg/common"
)

// SaleResult is returned to the boundary layer after a processed payment.
type SaleResult struct {
	TransactionID int64   `json:"transaction_id,string"`
	Total         float64 `json:"total"`
	Change        float64 `json:"change"`
}

// ConditionalDecrementStock atomically decrements a product's stock only if
// enough remains. Zero rows affected with an existing product maps to
// insufficient stock; the backing store serializes concurrent decrements so
// stock can never go negative.
func ConditionalDecrementStock(tx *gorm.DB, productID int64, quantity int) error {
	res := tx.Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return errors.Wrap(ErrStoreFailure, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		var product domain.Product
		err := tx.Where("id = ?", productID).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrapf(ErrItemNotFound, "product %d", productID)
		} else if err != nil {
			return errors.Wrap(ErrStoreFailure, err.Error())
		}
		return &StockShortageError{
			ProductID: productID,
			Available: product.Stock,
			Requested: quantity,
		}
	}
	return nil
}

// CommitSale persists a transaction header, its line items and the stock
// decrements as one unit. Any line failure discards the whole sale: no
// header, no items and no stock change remain visible. Every line's stock is
// re-verified here regardless of prior validation.
func (s *Service) CommitSale(ctx context.Context, cart []CartItem, total, tendered, change float64,
	method string, customerID *int64) (int64, error) {
	if len(cart) == 0 {
		return 0, errors.Wrap(ErrInvalidLineItem, "empty cart")
	}
	for _, v := range []float64{total, tendered, change} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errors.Wrap(ErrInvalidLineItem, "invalid money amount")
		}
	}
	if tendered < total {
		return 0, &PaymentShortageError{Required: total, Provided: tendered}
	}
	if math.Abs((tendered-total)-change) > 0.005 {
		return 0, errors.Wrap(ErrInvalidLineItem, "change does not reconcile with payment and total")
	}
	if method == "" {
		method = domain.PaymentMethodCash
	}
	if !domain.ValidPaymentMethod(method) {
		return 0, errors.Wrapf(ErrInvalidLineItem, "unsupported payment method %q", method)
	}

	transactionID := common.UUIDint64()
	committedAt := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header := domain.Transaction{
			ID:              transactionID,
			CustomerID:      customerID,
			TotalAmount:     total,
			PaymentAmount:   tendered,
			ChangeAmount:    change,
			PaymentMethod:   method,
			TransactionDate: committedAt,
		}
		if err := tx.Create(&header).Error; err != nil {
			return errors.Wrap(ErrStoreFailure, err.Error())
		}

		for _, item := range cart {
			if err := checkLineItem(item); err != nil {
				return err
			}
			record := domain.TransactionItem{
				ID:            common.UUIDint64(),
				TransactionID: transactionID,
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				Price:         item.Price,
				CreatedAt:     committedAt,
			}
			if err := tx.Create(&record).Error; err != nil {
				return errors.Wrap(ErrStoreFailure, err.Error())
			}
			if err := ConditionalDecrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.publishSaleCommitted(SaleCommitted{
		TransactionID: transactionID,
		Total:         total,
		Method:        method,
		Items:         cart,
		CommittedAt:   committedAt,
	})
	return transactionID, nil
}

// ProcessPayment validates the cart against live stock and, when feasible,
// commits the sale. Validation failures are returned without touching the
// store.
func (s *Service) ProcessPayment(ctx context.Context, cart []CartItem, tendered float64,
	method string, customerID *int64) (*SaleResult, error) {
	validation, err := s.ValidatePayment(ctx, cart, tendered)
	if err != nil {
		return nil, err
	}

	transactionID, err := s.CommitSale(ctx, cart, validation.Total, tendered, validation.Change, method, customerID)
	if err != nil {
		return nil, err
	}

	return &SaleResult{
		TransactionID: transactionID,
		Total:         validation.Total,
		Change:        validation.Change,
	}, nil
}
