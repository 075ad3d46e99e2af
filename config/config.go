// Package config loads the settings of the attr tool from a YAML file and
// ATTR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log          LogConfig          `mapstructure:"log"`
	AlphaVantage AlphaVantageConfig `mapstructure:"alphavantage"`
	EODHD        EODHDConfig        `mapstructure:"eodhd"`
	Store        StoreConfig        `mapstructure:"store"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Server       ServerConfig       `mapstructure:"server"`
	Refresh      RefreshConfig      `mapstructure:"refresh"`
	Agent        AgentConfig        `mapstructure:"agent"`

	// Provider names the remote price source: alphavantage or eodhd.
	Provider string `mapstructure:"provider"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"` // json or console
	Development bool   `mapstructure:"development"`
	// File, when set, receives the logs instead of stderr. It is rotated.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type AlphaVantageConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
	// CacheDir holds raw responses for the day. Empty disables it.
	CacheDir string `mapstructure:"cache_dir"`
}

type EODHDConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
	CacheDir          string        `mapstructure:"cache_dir"`
}

type StoreConfig struct {
	// Path of the sqlite database holding price series.
	Path string `mapstructure:"path"`
}

type CacheConfig struct {
	Size int `mapstructure:"size"` // number of series kept in memory
	// MaxAge is how old the latest stored price can be before the series is
	// fetched again.
	MaxAge time.Duration `mapstructure:"max_age"`
}

type ServerConfig struct {
	HTTPAddr     string        `mapstructure:"http_addr"`
	Mode         string        `mapstructure:"mode"` // gin mode: debug, release or test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RefreshConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"` // cron spec, with seconds
}

type AgentConfig struct {
	Model string `mapstructure:"model"`
}

// Load reads the configuration file at path and applies environment
// overrides, e.g. ATTR_ALPHAVANTAGE_API_KEY for alphavantage.api_key.
//
// A missing file is not an error when path is empty or does not exist: defaults
// and environment apply.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ATTR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("cannot read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("alphavantage.api_key", "")
	v.SetDefault("alphavantage.base_url", "https://www.alphavantage.co/query")
	v.SetDefault("alphavantage.requests_per_minute", 4)
	v.SetDefault("alphavantage.timeout", "30s")
	v.SetDefault("alphavantage.cache_dir", "")
	v.SetDefault("provider", "alphavantage")
	v.SetDefault("eodhd.api_key", "")
	v.SetDefault("eodhd.base_url", "https://eodhd.com/api")
	v.SetDefault("eodhd.requests_per_minute", 60)
	v.SetDefault("eodhd.timeout", "30s")
	v.SetDefault("eodhd.cache_dir", "")
	v.SetDefault("store.path", "prices.db")
	v.SetDefault("cache.size", 256)
	v.SetDefault("cache.max_age", "2400h") // 100 days
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("refresh.enabled", false)
	v.SetDefault("refresh.schedule", "0 30 18 * * 1-5")
	v.SetDefault("agent.model", "gemini-2.5-flash")
}

// Validate checks values that would only fail much later.
func (c Config) Validate() error {
	if c.AlphaVantage.RequestsPerMinute <= 0 {
		return fmt.Errorf("alphavantage.requests_per_minute must be positive, got %d", c.AlphaVantage.RequestsPerMinute)
	}
	if c.EODHD.RequestsPerMinute <= 0 {
		return fmt.Errorf("eodhd.requests_per_minute must be positive, got %d", c.EODHD.RequestsPerMinute)
	}
	switch c.Provider {
	case "alphavantage", "eodhd":
	default:
		return fmt.Errorf("provider must be alphavantage or eodhd, got %q", c.Provider)
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
	}
	if c.Cache.MaxAge < 0 {
		return fmt.Errorf("cache.max_age must not be negative, got %s", c.Cache.MaxAge)
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("log.encoding must be json or console, got %q", c.Log.Encoding)
	}
	return nil
}
