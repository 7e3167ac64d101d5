package pos

import (
	"context"
	"testing"

	evbus "github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/toughpos/internal/domain"
)

func TestProcessPayment(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 5)
	svc := NewService(db, nil)

	result, err := svc.ProcessPayment(context.Background(),
		[]CartItem{{ProductID: 1, Price: 15000, Quantity: 3}}, 50000, "", nil)
	require.NoError(t, err)
	assert.NotZero(t, result.TransactionID)
	assert.Equal(t, 45000.0, result.Total)
	assert.Equal(t, 5000.0, result.Change)
	assert.Equal(t, 2, productStock(t, db, 1))

	var header domain.Transaction
	require.NoError(t, db.Where("id = ?", result.TransactionID).First(&header).Error)
	assert.Equal(t, 45000.0, header.TotalAmount)
	assert.Equal(t, 50000.0, header.PaymentAmount)
	assert.Equal(t, 5000.0, header.ChangeAmount)
	assert.Equal(t, domain.PaymentMethodCash, header.PaymentMethod)

	var items []domain.TransactionItem
	require.NoError(t, db.Where("transaction_id = ?", result.TransactionID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 15000.0, items[0].Price)
}

func TestCommitSaleRollbackOnShortLine(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 5)
	seedProduct(t, db, 2, "Cooking Oil (1 L)", 25000, 2)
	svc := NewService(db, nil)

	// second line exceeds stock: the whole sale must vanish
	cart := []CartItem{
		{ProductID: 1, Price: 15000, Quantity: 2},
		{ProductID: 2, Price: 25000, Quantity: 3},
	}
	_, err := svc.CommitSale(context.Background(), cart, 105000, 110000, 5000, "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 5, productStock(t, db, 1))
	assert.Equal(t, 2, productStock(t, db, 2))

	var headers int64
	require.NoError(t, db.Model(&domain.Transaction{}).Count(&headers).Error)
	assert.Zero(t, headers)
	var lines int64
	require.NoError(t, db.Model(&domain.TransactionItem{}).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestCommitSaleRaceLoser(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 5)
	svc := NewService(db, nil)
	ctx := context.Background()

	// both registers validated against stock 5; only the first commit wins
	cart := []CartItem{{ProductID: 1, Price: 15000, Quantity: 3}}
	_, err := svc.ValidatePayment(ctx, cart, 50000)
	require.NoError(t, err)
	_, err = svc.ValidatePayment(ctx, cart, 50000)
	require.NoError(t, err)

	_, err = svc.CommitSale(ctx, cart, 45000, 50000, 5000, "", nil)
	require.NoError(t, err)

	_, err = svc.CommitSale(ctx, cart, 45000, 50000, 5000, "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var shortage *StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, 2, shortage.Available)
	assert.Equal(t, 3, shortage.Requested)
	assert.Equal(t, 2, productStock(t, db, 1))
}

func TestCommitSaleRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 5)
	svc := NewService(db, nil)
	ctx := context.Background()
	cart := []CartItem{{ProductID: 1, Price: 15000, Quantity: 1}}

	_, err := svc.CommitSale(ctx, nil, 0, 0, 0, "", nil)
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	_, err = svc.CommitSale(ctx, cart, 15000, 10000, 0, "", nil)
	assert.ErrorIs(t, err, ErrInsufficientPayment)

	// change that does not reconcile with tendered minus total
	_, err = svc.CommitSale(ctx, cart, 15000, 20000, 1000, "", nil)
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	_, err = svc.CommitSale(ctx, cart, 15000, 15000, 0, "bitcoin", nil)
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	// nothing above may have touched the store
	assert.Equal(t, 5, productStock(t, db, 1))
}

func TestCommitSalePublishesEvent(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 5)

	bus := evbus.New()
	var got SaleCommitted
	require.NoError(t, bus.Subscribe(TopicSaleCommitted, func(evt SaleCommitted) {
		got = evt
	}))
	svc := NewService(db, bus)

	id, err := svc.CommitSale(context.Background(),
		[]CartItem{{ProductID: 1, Price: 15000, Quantity: 2}},
		30000, 30000, 0, domain.PaymentMethodCard, nil)
	require.NoError(t, err)

	assert.Equal(t, id, got.TransactionID)
	assert.Equal(t, 30000.0, got.Total)
	assert.Equal(t, domain.PaymentMethodCard, got.Method)
	require.Len(t, got.Items, 1)
	assert.False(t, got.CommittedAt.IsZero())
}

func TestConditionalDecrementStockMissingProduct(t *testing.T) {
	db := newTestDB(t)

	err := ConditionalDecrementStock(db, 404, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
