package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type SftpConfig struct {
	Enable bool   `yaml:"enable" json:"enable"`
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	User   string `yaml:"user" json:"user"`
	Passwd string `yaml:"passwd" json:"passwd"`
	Dir    string `yaml:"dir" json:"dir"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
	Backup   SftpConfig `yaml:"backup" json:"backup"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "ToughPOS",
		Location: "Asia/Jakarta",
		Workdir:  "/var/toughpos",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-0001-1203-xxtt-0f568ac9da37",
		JwtSecret: "9b6de5cc-0002-1203-xxtt-0f568ac9da37",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "toughpos_v1",
		User:     "postgres",
		Passwd:   "root",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/toughpos/toughpos.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v := os.Getenv(name); v != "" {
		f(v)
	}
}

func setEnvInt64Value(name string, f func(v int64)) {
	var evalue int64
	if _, err := fmt.Sscanf(os.Getenv(name), "%d", &evalue); err == nil {
		f(evalue)
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "parse config %s error: %s\n", cfile, err)
			}
		}
	}

	setEnvValue("TOUGHPOS_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("TOUGHPOS_SYSTEM_DEBUG", func(v string) { cfg.System.Debug = v == "true" })
	setEnvValue("TOUGHPOS_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("TOUGHPOS_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvInt64Value("TOUGHPOS_WEB_PORT", func(v int64) { cfg.Web.Port = int(v) })
	setEnvValue("TOUGHPOS_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("TOUGHPOS_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvInt64Value("TOUGHPOS_DB_PORT", func(v int64) { cfg.Database.Port = int(v) })
	setEnvValue("TOUGHPOS_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("TOUGHPOS_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("TOUGHPOS_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("TOUGHPOS_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })

	return cfg
}

func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "backup"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "metrics"), 0755)
}
