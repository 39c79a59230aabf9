package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/simaogato/bondtracker-backend/internal/domain"
)

const (
	pingAttempts = 5
	pingBackoff  = 500 * time.Millisecond
)

// DB wraps the database connection together with the settings namespace
// the process reads and writes by default
type DB struct {
	*sql.DB
	namespace string
}

// NewDB opens a connection and waits for Postgres to accept it, retrying the
// ping a few times so a database that is still starting up is not fatal.
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=bondtracker sslmode=disable"
// An empty namespace means domain.DefaultNamespace.
func NewDB(ctx context.Context, connectionString, namespace string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := pingWithRetry(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &DB{DB: db, namespace: namespace}, nil
}

func pingWithRetry(ctx context.Context, db *sql.DB) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == pingAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		case <-time.After(pingBackoff):
		}
	}
	return err
}

// Namespace returns the namespace Settings scopes its keys to
func (db *DB) Namespace() string {
	return db.namespace
}

// Settings returns the settings repository for the connection's namespace
func (db *DB) Settings() domain.SettingsStore {
	return NewSettingsRepository(db, db.namespace)
}

// Migrate creates the shared settings table if it does not exist
func (db *DB) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS bond_settings (
			namespace  TEXT NOT NULL,
			key        TEXT NOT NULL,
			kind       TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (namespace, key)
		)
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create bond_settings table: %w", err)
	}
	return nil
}
