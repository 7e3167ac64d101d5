package pos

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePayment(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 5)
	svc := NewService(db, nil)
	ctx := context.Background()

	cart := []CartItem{{ProductID: 1, Price: 15000, Quantity: 3}}
	result, err := svc.ValidatePayment(ctx, cart, 50000)
	require.NoError(t, err)
	assert.Equal(t, 45000.0, result.Total)
	assert.Equal(t, 5000.0, result.Change)

	// read-only: stock untouched
	assert.Equal(t, 5, productStock(t, db, 1))
}

func TestValidatePaymentIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 5)
	svc := NewService(db, nil)
	ctx := context.Background()

	cart := []CartItem{{ProductID: 1, Price: 15000, Quantity: 3}}
	first, err := svc.ValidatePayment(ctx, cart, 50000)
	require.NoError(t, err)
	second, err := svc.ValidatePayment(ctx, cart, 50000)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 5, productStock(t, db, 1))
}

func TestValidatePaymentInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 5)
	svc := NewService(db, nil)

	_, err := svc.ValidatePayment(context.Background(),
		[]CartItem{{ProductID: 1, Price: 15000, Quantity: 6}}, 100000)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var shortage *StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, 5, shortage.Available)
	assert.Equal(t, 6, shortage.Requested)
}

func TestValidatePaymentInsufficientPayment(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 5)
	svc := NewService(db, nil)

	_, err := svc.ValidatePayment(context.Background(),
		[]CartItem{{ProductID: 1, Price: 15000, Quantity: 3}}, 40000)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientPayment)

	var shortage *PaymentShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, 45000.0, shortage.Required)
	assert.Equal(t, 40000.0, shortage.Provided)
}

func TestValidatePaymentItemNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	_, err := svc.ValidatePayment(context.Background(),
		[]CartItem{{ProductID: 999, Price: 100, Quantity: 1}}, 1000)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestValidatePaymentInvalidLineItems(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 5)
	svc := NewService(db, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		cart []CartItem
	}{
		{"empty cart", nil},
		{"zero quantity", []CartItem{{ProductID: 1, Price: 15000, Quantity: 0}}},
		{"negative quantity", []CartItem{{ProductID: 1, Price: 15000, Quantity: -2}}},
		{"negative price", []CartItem{{ProductID: 1, Price: -1, Quantity: 1}}},
		{"nan price", []CartItem{{ProductID: 1, Price: math.NaN(), Quantity: 1}}},
		{"missing product reference", []CartItem{{ProductID: 0, Price: 15000, Quantity: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ValidatePayment(ctx, tc.cart, 100000)
			assert.ErrorIs(t, err, ErrInvalidLineItem)
		})
	}

	_, err := svc.ValidatePayment(ctx, []CartItem{{ProductID: 1, Price: 15000, Quantity: 1}}, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidLineItem)
}
