// Package sqlite stores the shared settings in a local SQLite file. Both the
// interactive command and the widget daemon open the same file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/simaogato/bondtracker-backend/internal/adapter/repository/sqlkv"
)

// DefaultPath is used when no database path is configured
const DefaultPath = "bondtracker.db"

var queries = sqlkv.Queries{
	Select: `SELECT kind, value FROM bond_settings WHERE namespace = ? AND key = ?`,
	Upsert: `INSERT INTO bond_settings (namespace, key, kind, value) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET kind = excluded.kind, value = excluded.value`,
}

// Open opens (creating if needed) the settings database at path.
// A busy timeout lets a reader and the single writer share the file.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS bond_settings (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		kind TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create settings table: %w", err)
	}

	return db, nil
}

// NewSettingsRepository creates a settings repository over an opened database
func NewSettingsRepository(db *sql.DB, namespace string) *sqlkv.SettingsRepository {
	return sqlkv.NewSettingsRepository(db, namespace, queries)
}
