package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/talkincode/toughpos/config"
	"github.com/talkincode/toughpos/internal/pos"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
	SaveSettings(settings map[string]interface{}) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// PosProvider provides the sales core service
type PosProvider interface {
	PosService() *pos.Service
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	PosProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// SendReceiptEmail sends a rendered receipt using the configured SMTP settings
	SendReceiptEmail(to, subject, body string) error
	// BackupDatabase exports the store to CSV and optionally uploads it over SFTP
	BackupDatabase() error
}
