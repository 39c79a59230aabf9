package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load builds the configuration from defaults, the TOML file at path (skipped
// when path is empty), a .env file if present, and BONDTRACKER_* environment
// variables, in that order. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Storage.Driver, "BONDTRACKER_STORAGE_DRIVER")
	setStr(&cfg.Storage.SQLitePath, "BONDTRACKER_SQLITE_PATH")
	setStr(&cfg.Storage.PostgresDSN, "BONDTRACKER_POSTGRES_DSN")
	setStr(&cfg.Storage.Namespace, "BONDTRACKER_NAMESPACE")
	if cfg.Storage.Driver == DriverPostgres && cfg.Storage.PostgresDSN == "" {
		cfg.Storage.PostgresDSN = dsnFromParts()
	}

	setStr(&cfg.Redis.Addr, "BONDTRACKER_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "BONDTRACKER_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "BONDTRACKER_REDIS_DB")
	setStr(&cfg.Redis.Channel, "BONDTRACKER_REDIS_CHANNEL")

	setStr(&cfg.Widget.GRPCAddr, "BONDTRACKER_GRPC_ADDR")
	setStr(&cfg.Widget.MetricsAddr, "BONDTRACKER_METRICS_ADDR")
	setInt(&cfg.Widget.EntriesAhead, "BONDTRACKER_ENTRIES_AHEAD")

	setStr(&cfg.LogLevel, "BONDTRACKER_LOG_LEVEL")
	setStr(&cfg.LogFormat, "BONDTRACKER_LOG_FORMAT")
}

// dsnFromParts builds a PostgreSQL DSN from the DB_* variables used by the
// docker setup
func dsnFromParts() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "bondtracker"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
