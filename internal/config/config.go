// Package config defines the configuration shared by bondtracker and widgetd.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/simaogato/bondtracker-backend/internal/adapter/redis"
	"github.com/simaogato/bondtracker-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/bondtracker-backend/internal/domain"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the root configuration. Fields are populated from an optional TOML
// file and then overridden by BONDTRACKER_* environment variables.
type Config struct {
	Storage  StorageConfig `toml:"storage"`
	Redis    RedisConfig   `toml:"redis"`
	Widget   WidgetConfig  `toml:"widget"`
	LogLevel string        `toml:"log_level"`
	// LogFormat is "json" or "text"
	LogFormat string `toml:"log_format"`
}

// StorageConfig selects where the bond record lives
type StorageConfig struct {
	Driver      string `toml:"driver"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn"`
	Namespace   string `toml:"namespace"`
}

// RedisConfig holds the reload bus connection. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

// WidgetConfig configures the widget daemon
type WidgetConfig struct {
	GRPCAddr     string `toml:"grpc_addr"`
	MetricsAddr  string `toml:"metrics_addr"`
	EntriesAhead int    `toml:"entries_ahead"`
}

// Defaults returns a configuration that runs locally against a SQLite file
func Defaults() Config {
	return Config{
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: sqlite.DefaultPath,
			Namespace:  domain.DefaultNamespace,
		},
		Redis: RedisConfig{
			Channel: redis.DefaultChannel,
		},
		Widget: WidgetConfig{
			GRPCAddr:     ":8080",
			MetricsAddr:  ":9090",
			EntriesAhead: 0,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []string

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, "storage: sqlite_path must not be empty")
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, "storage: postgres_dsn must not be empty")
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Sprintf("storage: unknown driver %q (valid: sqlite, postgres, memory)", c.Storage.Driver))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Sprintf("unknown log_format %q (valid: json, text)", c.LogFormat))
	}

	if c.Redis.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Redis.Addr); err != nil {
			errs = append(errs, fmt.Sprintf("redis: invalid addr %q", c.Redis.Addr))
		}
		if c.Redis.DB < 0 {
			errs = append(errs, "redis: db must not be negative")
		}
	}

	for name, addr := range map[string]string{"grpc_addr": c.Widget.GRPCAddr, "metrics_addr": c.Widget.MetricsAddr} {
		if addr == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(addr); err != nil {
			errs = append(errs, fmt.Sprintf("widget: invalid %s %q", name, addr))
		}
	}
	if c.Widget.EntriesAhead < 0 {
		errs = append(errs, "widget: entries_ahead must not be negative")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}
