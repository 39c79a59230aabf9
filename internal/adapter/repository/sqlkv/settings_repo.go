// Package sqlkv implements domain.SettingsStore on a single namespaced
// key/value table. The sqlite and postgres packages supply the driver and the
// dialect-specific statements.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/simaogato/bondtracker-backend/internal/domain"
)

// Value kinds stored alongside each value
const (
	KindFloat = "float"
	KindInt   = "int"
	KindTime  = "time"
)

// Queries holds the two statements a dialect must provide.
// Select takes (namespace, key) and returns (kind, value).
// Upsert takes (namespace, key, kind, value).
type Queries struct {
	Select string
	Upsert string
}

// SettingsRepository implements domain.SettingsStore on database/sql
type SettingsRepository struct {
	db        *sql.DB
	namespace string
	queries   Queries
}

// NewSettingsRepository creates a new settings repository scoped to namespace
func NewSettingsRepository(db *sql.DB, namespace string, queries Queries) *SettingsRepository {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &SettingsRepository{db: db, namespace: namespace, queries: queries}
}

// Namespace returns the namespace every key is scoped to
func (r *SettingsRepository) Namespace() string {
	return r.namespace
}

// GetFloat retrieves a float value by key
func (r *SettingsRepository) GetFloat(ctx context.Context, key string) (float64, bool, error) {
	kind, raw, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	if kind != KindFloat && kind != KindInt {
		return 0, false, mismatch(key, kind, KindFloat)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse %s: %w", key, errors.Join(domain.ErrInvalidStoredValue, err))
	}
	return v, true, nil
}

// GetInt retrieves an integer value by key
func (r *SettingsRepository) GetInt(ctx context.Context, key string) (int, bool, error) {
	kind, raw, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	if kind != KindInt {
		return 0, false, mismatch(key, kind, KindInt)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse %s: %w", key, errors.Join(domain.ErrInvalidStoredValue, err))
	}
	return v, true, nil
}

// GetTime retrieves a timestamp by key
func (r *SettingsRepository) GetTime(ctx context.Context, key string) (time.Time, bool, error) {
	kind, raw, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	if kind != KindTime {
		return time.Time{}, false, mismatch(key, kind, KindTime)
	}
	v, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse %s: %w", key, errors.Join(domain.ErrInvalidStoredValue, err))
	}
	return v.Local(), true, nil
}

// SetFloat stores a float value under key
func (r *SettingsRepository) SetFloat(ctx context.Context, key string, value float64) error {
	return r.set(ctx, key, KindFloat, strconv.FormatFloat(value, 'g', -1, 64))
}

// SetInt stores an integer value under key
func (r *SettingsRepository) SetInt(ctx context.Context, key string, value int) error {
	return r.set(ctx, key, KindInt, strconv.Itoa(value))
}

// SetTime stores a timestamp under key
func (r *SettingsRepository) SetTime(ctx context.Context, key string, value time.Time) error {
	return r.set(ctx, key, KindTime, value.Format(time.RFC3339Nano))
}

func (r *SettingsRepository) get(ctx context.Context, key string) (kind, raw string, ok bool, err error) {
	err = r.db.QueryRowContext(ctx, r.queries.Select, r.namespace, key).Scan(&kind, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return kind, raw, true, nil
}

func (r *SettingsRepository) set(ctx context.Context, key, kind, raw string) error {
	if _, err := r.db.ExecContext(ctx, r.queries.Upsert, r.namespace, key, kind, raw); err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", key, err)
	}
	return nil
}

func mismatch(key, got, want string) error {
	return fmt.Errorf("setting %s is %s, want %s: %w", key, got, want, domain.ErrInvalidStoredValue)
}

var _ domain.SettingsStore = (*SettingsRepository)(nil)
