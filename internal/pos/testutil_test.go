package pos

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talkincode/toughpos/internal/domain"
	"github.com/talkincode/toughpos/pkg/common"
)

// newTestDB opens a private in-memory database migrated to the POS schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, id int64, name string, price float64, stock int) {
	t.Helper()
	now := time.Now()
	require.NoError(t, db.Create(&domain.Product{
		ID:        id,
		Name:      name,
		Price:     price,
		Stock:     stock,
		Category:  "Groceries",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)
}

func productStock(t *testing.T, db *gorm.DB, id int64) int {
	t.Helper()
	var p domain.Product
	require.NoError(t, db.Where("id = ?", id).First(&p).Error)
	return p.Stock
}

// seedTransaction inserts a committed sale directly, bypassing the committer,
// for reporting fixtures with controlled dates.
func seedTransaction(t *testing.T, db *gorm.DB, date time.Time, total float64, items []domain.TransactionItem) int64 {
	t.Helper()
	id := common.UUIDint64()
	require.NoError(t, db.Create(&domain.Transaction{
		ID:              id,
		TotalAmount:     total,
		PaymentAmount:   total,
		ChangeAmount:    0,
		PaymentMethod:   domain.PaymentMethodCash,
		TransactionDate: date,
	}).Error)
	for i := range items {
		items[i].ID = common.UUIDint64()
		items[i].TransactionID = id
		items[i].CreatedAt = date
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return id
}
