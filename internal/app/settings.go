package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/talkincode/toughpos/internal/domain"
	"github.com/talkincode/toughpos/pkg/common"
)

const settingsCacheTTL = 30 * time.Second

// ConfigManager reads runtime settings from sys_config with a short cache.
type ConfigManager struct {
	app      *Application
	mu       sync.RWMutex
	cache    map[string]string
	loadedAt time.Time
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app, cache: map[string]string{}}
}

func (m *ConfigManager) reload() {
	var rows []domain.SysConfig
	if err := m.app.gormDB.Find(&rows).Error; err != nil {
		zap.S().Errorf("load settings error: %s", err)
		return
	}
	cache := make(map[string]string, len(rows))
	for _, row := range rows {
		cache[row.Type+"."+row.Name] = row.Value
	}
	m.cache = cache
	m.loadedAt = time.Now()
}

func (m *ConfigManager) get(category, key string) string {
	m.mu.RLock()
	fresh := time.Since(m.loadedAt) < settingsCacheTTL
	value := m.cache[category+"."+key]
	m.mu.RUnlock()
	if fresh {
		return value
	}

	m.mu.Lock()
	if time.Since(m.loadedAt) >= settingsCacheTTL {
		m.reload()
	}
	value = m.cache[category+"."+key]
	m.mu.Unlock()
	return value
}

func (m *ConfigManager) GetString(category, key string) string {
	return m.get(category, key)
}

func (m *ConfigManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.get(category, key))
}

func (m *ConfigManager) GetBool(category, key string) bool {
	return cast.ToBool(m.get(category, key))
}

// Save upserts "category.name" keyed settings and invalidates the cache.
func (m *ConfigManager) Save(settings map[string]interface{}) error {
	for key, raw := range settings {
		parts := strings.SplitN(key, ".", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid setting key %q", key)
		}
		value := cast.ToString(raw)

		var row domain.SysConfig
		err := m.app.gormDB.Where("type = ? and name = ?", parts[0], parts[1]).First(&row).Error
		if err != nil {
			row = domain.SysConfig{
				ID:    common.UUIDint64(),
				Type:  parts[0],
				Name:  parts[1],
				Value: value,
			}
			if err := m.app.gormDB.Create(&row).Error; err != nil {
				return err
			}
			continue
		}
		if err := m.app.gormDB.Model(&domain.SysConfig{}).
			Where("id = ?", row.ID).Update("value", value).Error; err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.loadedAt = time.Time{}
	m.mu.Unlock()
	return nil
}

// SmtpSettings is the mail configuration stored under the smtp category.
type SmtpSettings struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// GetSmtpSettings decodes the smtp settings category into a typed struct.
func (m *ConfigManager) GetSmtpSettings() (*SmtpSettings, error) {
	raw := map[string]interface{}{
		"host":     m.GetString("smtp", "host"),
		"port":     m.GetInt64("smtp", "port"),
		"username": m.GetString("smtp", "username"),
		"password": m.GetString("smtp", "password"),
		"from":     m.GetString("smtp", "from"),
	}
	var settings SmtpSettings
	if err := mapstructure.Decode(raw, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
