// Package app wires configuration to concrete adapters for both commands.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/bondtracker-backend/internal/adapter/redis"
	"github.com/simaogato/bondtracker-backend/internal/adapter/repository/memory"
	"github.com/simaogato/bondtracker-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/bondtracker-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/bondtracker-backend/internal/config"
	"github.com/simaogato/bondtracker-backend/internal/domain"
)

// Storage is an opened settings store plus whatever must be closed with it
type Storage struct {
	Settings domain.SettingsStore
	closers  []func() error
}

// Close releases the underlying connections
func (s *Storage) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenStorage opens the settings store selected by cfg.Driver
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return &Storage{Settings: memory.NewSettings()}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Settings: sqlite.NewSettingsRepository(db, cfg.Namespace),
			closers:  []func() error{db.Close},
		}, nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.PostgresDSN, cfg.Namespace)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Storage{
			Settings: db.Settings(),
			closers:  []func() error{db.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Reloads is the optional cross-process reload channel
type Reloads struct {
	Bus    *redis.RefreshBus
	client *redis.Client
}

// Notifier returns the bus as a domain.RefreshNotifier, or nil when disabled
func (r *Reloads) Notifier() domain.RefreshNotifier {
	if r == nil || r.Bus == nil {
		return nil
	}
	return r.Bus
}

// Close closes the Redis connection, if any
func (r *Reloads) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// OpenReloads connects the reload bus. It returns nil, nil when no Redis
// address is configured.
func OpenReloads(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Reloads, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}

	client, err := redis.New(ctx, redis.ClientConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}

	return &Reloads{
		Bus:    redis.NewRefreshBus(client, cfg.Redis.Channel, cfg.Storage.Namespace, logger),
		client: client,
	}, nil
}
