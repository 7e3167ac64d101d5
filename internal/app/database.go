package app

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talkincode/toughpos/config"
)

// getDatabase opens the backing store. Postgres is the production store;
// sqlite serves development and tests.
func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	logLevel := logger.Error
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "sqlite":
		name := cfg.Name
		if name == "" {
			name = "toughpos.db"
		}
		dialector = sqlite.Open(filepath.Join(workdir, "data", name))
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name, time.Local.String())
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		zap.S().Panicf("open database error: %s", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		if cfg.MaxConn > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxConn)
		}
		if cfg.IdleConn > 0 {
			sqlDB.SetMaxIdleConns(cfg.IdleConn)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db
}
