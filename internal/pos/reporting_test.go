package pos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/toughpos/internal/domain"
)

func TestGetDashboardData(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 100)
	seedProduct(t, db, 2, "Cooking Oil (1 L)", 25000, 100)
	svc := NewService(db, nil)

	now := time.Now()
	seedTransaction(t, db, now, 45000, []domain.TransactionItem{
		{ProductID: 1, Quantity: 3, Price: 15000},
	})
	seedTransaction(t, db, now, 50000, []domain.TransactionItem{
		{ProductID: 2, Quantity: 2, Price: 25000},
	})
	// yesterday must not count
	seedTransaction(t, db, now.AddDate(0, 0, -1), 99000, []domain.TransactionItem{
		{ProductID: 1, Quantity: 1, Price: 99000},
	})

	data, err := svc.GetDashboardData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 95000.0, data.TodaySales)
	assert.Equal(t, int64(2), data.TransactionCount)
	assert.Equal(t, "Rice (1 kg), Cooking Oil (1 L)", data.TopProducts)
}

func TestGetDashboardDataEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	data, err := svc.GetDashboardData(context.Background())
	require.NoError(t, err)
	assert.Zero(t, data.TodaySales)
	assert.Zero(t, data.TransactionCount)
	assert.Equal(t, "-", data.TopProducts)
}

func TestGetTopSellingProducts(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 100)
	seedProduct(t, db, 2, "Cooking Oil (1 L)", 25000, 100)
	seedProduct(t, db, 3, "Sugar (1 kg)", 12000, 100)
	svc := NewService(db, nil)

	now := time.Now()
	seedTransaction(t, db, now, 0, []domain.TransactionItem{
		{ProductID: 1, Quantity: 2, Price: 15000},
		{ProductID: 2, Quantity: 5, Price: 25000},
	})
	seedTransaction(t, db, now, 0, []domain.TransactionItem{
		{ProductID: 1, Quantity: 4, Price: 15000},
		{ProductID: 3, Quantity: 1, Price: 12000},
	})

	top, err := svc.GetTopSellingProducts(context.Background(), 2, nil, nil)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Rice (1 kg)", top[0].ProductName)
	assert.Equal(t, int64(6), top[0].TotalSold)
	assert.Equal(t, "Cooking Oil (1 L)", top[1].ProductName)
	assert.Equal(t, int64(5), top[1].TotalSold)
}

func TestGetTransactions(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 100)
	svc := NewService(db, nil)

	old := seedTransaction(t, db, time.Now().Add(-2*time.Hour), 15000, []domain.TransactionItem{
		{ProductID: 1, Quantity: 1, Price: 15000},
	})
	recent := seedTransaction(t, db, time.Now(), 45000, []domain.TransactionItem{
		{ProductID: 1, Quantity: 3, Price: 15000},
	})

	rows, err := svc.GetTransactions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, recent, rows[0].ID)
	assert.Equal(t, old, rows[1].ID)
	assert.Equal(t, 45000.0, rows[0].CalculatedTotal)
	assert.Equal(t, 15000.0, rows[1].CalculatedTotal)
}

func TestGetTransaction(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 100)
	seedProduct(t, db, 2, "Cooking Oil (1 L)", 25000, 100)
	svc := NewService(db, nil)

	id := seedTransaction(t, db, time.Now(), 65000, []domain.TransactionItem{
		{ProductID: 1, Quantity: 1, Price: 15000},
		{ProductID: 2, Quantity: 2, Price: 25000},
	})

	detail, err := svc.GetTransaction(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, detail.Transaction.ID)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "Rice (1 kg)", detail.Items[0].ProductName)
	assert.Equal(t, "Cooking Oil (1 L)", detail.Items[1].ProductName)
	assert.Equal(t, 2, detail.Items[1].Quantity)
}

func TestGetTransactionNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	_, err := svc.GetTransaction(context.Background(), 424242)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetSalesReport(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 1, "Rice (1 kg)", 15000, 100)
	svc := NewService(db, nil)

	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 8, 3, 14, 30, 0, 0, time.Local)
	seedTransaction(t, db, day1, 30000, nil)
	seedTransaction(t, db, day1, 15000, nil)
	seedTransaction(t, db, day2, 45000, nil)
	// outside the requested range
	seedTransaction(t, db, time.Date(2026, 8, 10, 9, 0, 0, 0, time.Local), 99000, nil)

	rows, summary, err := svc.GetSalesReport(context.Background(), "2026-08-01", "2026-08-05")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-08-01", rows[0].Date)
	assert.Equal(t, int64(2), rows[0].TransactionCount)
	assert.Equal(t, 45000.0, rows[0].DailyTotal)
	assert.Equal(t, "2026-08-03", rows[1].Date)
	assert.Equal(t, 45000.0, rows[1].DailyTotal)

	assert.Equal(t, 2, summary.Days)
	assert.Equal(t, 90000.0, summary.GrandTotal)
	assert.Equal(t, 45000.0, summary.MeanDaily)
	assert.Equal(t, 45000.0, summary.MedianDaily)
	assert.Equal(t, 45000.0, summary.BestDaily)
}

func TestGetSalesReportBadDates(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	_, _, err := svc.GetSalesReport(context.Background(), "not-a-date", "2026-08-05")
	assert.ErrorIs(t, err, ErrInvalidLineItem)
	_, _, err = svc.GetSalesReport(context.Background(), "2026-08-01", "also-bad")
	assert.ErrorIs(t, err, ErrInvalidLineItem)
}
