// Package config loads application configuration from defaults, an
// optional YAML file, and BONDOFFICE_* environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	Risk struct {
		// PV01 per-unit sensitivity assigned to newly risked products.
		Sensitivity string `mapstructure:"sensitivity"`
	} `mapstructure:"risk"`

	Streaming struct {
		VisibleQuantity int64 `mapstructure:"visible_quantity"`
		HiddenQuantity  int64 `mapstructure:"hidden_quantity"`
	} `mapstructure:"streaming"`

	Execution struct {
		Venue string `mapstructure:"venue"`
	} `mapstructure:"execution"`

	History struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"history"`

	Distribution struct {
		Backend      string   `mapstructure:"backend"` // "", "redis" or "kafka"
		RedisAddr    string   `mapstructure:"redis_addr"`
		KafkaBrokers []string `mapstructure:"kafka_brokers"`
		KafkaTopic   string   `mapstructure:"kafka_topic"`
	} `mapstructure:"distribution"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Feeds struct {
		TradesFile    string `mapstructure:"trades_file"`
		PricesFile    string `mapstructure:"prices_file"`
		MarketFile    string `mapstructure:"market_file"`
		InquiriesFile string `mapstructure:"inquiries_file"`
	} `mapstructure:"feeds"`
}

// Load reads configuration. path may name a YAML file; an empty path uses
// defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("risk.sensitivity", "0.01")
	v.SetDefault("streaming.visible_quantity", int64(1000000))
	v.SetDefault("streaming.hidden_quantity", int64(2000000))
	v.SetDefault("execution.venue", "BROKERTEC")
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.dsn", "bondoffice.db")
	v.SetDefault("distribution.backend", "")
	v.SetDefault("distribution.redis_addr", "localhost:6379")
	v.SetDefault("distribution.kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("distribution.kafka_topic", "bondoffice-updates")
	v.SetDefault("server.addr", ":8080")

	v.SetEnvPrefix("BONDOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
