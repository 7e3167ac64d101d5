package app

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkincode/toughpos/internal/domain"
	"github.com/talkincode/toughpos/pkg/common"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "toughpos"

	hashedPassword := common.Sha256HashWithSalt(defaultPassword, common.GetSecretSalt())

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

type settingSchema struct {
	Key         string
	Default     string
	Description string
}

// settingSchemas defines every runtime setting with its default value.
var settingSchemas = []settingSchema{
	{Key: "pos.low_stock_threshold", Default: "5", Description: "Warn when a product's stock falls to this level"},
	{Key: "pos.receipt_footer", Default: "Thank you for your purchase!", Description: "Extra text on receipts"},
	{Key: "notify.webhook_url", Default: "", Description: "POST committed sales to this URL when set"},
	{Key: "smtp.host", Default: "", Description: "SMTP server host for receipt mail"},
	{Key: "smtp.port", Default: "25", Description: "SMTP server port"},
	{Key: "smtp.username", Default: "", Description: "SMTP username"},
	{Key: "smtp.password", Default: "", Description: "SMTP password"},
	{Key: "smtp.from", Default: "pos@example.com", Description: "Receipt mail sender address"},
}

func (a *Application) checkSettings() {
	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, schema := range settingSchemas {
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkProducts seeds the sample catalog when the products table is empty.
func (a *Application) checkProducts() {
	var count int64
	a.gormDB.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return
	}

	defaultProducts := []domain.Product{
		{Name: "Rice (1 kg)", Price: 15000, Stock: 50, Category: "Groceries"},
		{Name: "Eggs (10 pcs)", Price: 12000, Stock: 30, Category: "Dairy"},
		{Name: "Milk (1 liter)", Price: 8000, Stock: 20, Category: "Dairy"},
		{Name: "Bread", Price: 7000, Stock: 25, Category: "Bakery"},
		{Name: "Sugar (1 kg)", Price: 10000, Stock: 40, Category: "Groceries"},
		{Name: "Cooking Oil (1 liter)", Price: 14000, Stock: 15, Category: "Groceries"},
		{Name: "Salt (1 kg)", Price: 5000, Stock: 35, Category: "Groceries"},
		{Name: "Coffee (200g)", Price: 18000, Stock: 10, Category: "Beverages"},
	}

	now := time.Now()
	for _, p := range defaultProducts {
		p.ID = common.UUIDint64()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to create default product", zap.String("name", p.Name), zap.Error(err))
		} else {
			zap.L().Info("initialized default product", zap.String("name", p.Name))
		}
	}
}

// checkCustomers seeds the sample customer when the customers table is empty.
func (a *Application) checkCustomers() {
	var count int64
	a.gormDB.Model(&domain.Customer{}).Count(&count)
	if count > 0 {
		return
	}

	customer := domain.Customer{
		ID:        common.UUIDint64(),
		Name:      "John Doe",
		Phone:     "081234567890",
		Email:     "john@example.com",
		Address:   "Jl. Sample Address No. 123",
		CreatedAt: time.Now(),
	}
	if err := a.gormDB.Create(&customer).Error; err != nil {
		zap.L().Error("failed to create default customer", zap.Error(err))
	} else {
		zap.L().Info("initialized default customer", zap.String("name", customer.Name))
	}
}
