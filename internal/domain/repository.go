package domain

import (
	"context"
	"time"
)

// Storage keys shared by the interactive process and the passive-display surface.
// Both sides MUST read and write these exact keys.
const (
	KeyTotalBondAmount  = "totalBondAmount"
	KeyTotalServiceDays = "totalServiceDays"
	KeyStartDate        = "startDate"
)

// DefaultNamespace scopes the keys so that every process reading the same
// backing storage sees one consistent record
const DefaultNamespace = "group.bondtracker"

// SettingsStore defines the key-value capability the bond record is persisted through.
// Getters report ok=false when the key has never been written.
type SettingsStore interface {
	// GetFloat retrieves a float value by key
	GetFloat(ctx context.Context, key string) (float64, bool, error)

	// GetInt retrieves an integer value by key
	GetInt(ctx context.Context, key string) (int, bool, error)

	// GetTime retrieves an absolute timestamp by key
	GetTime(ctx context.Context, key string) (time.Time, bool, error)

	// SetFloat stores a float value under key, replacing any previous value
	SetFloat(ctx context.Context, key string, value float64) error

	// SetInt stores an integer value under key, replacing any previous value
	SetInt(ctx context.Context, key string, value int) error

	// SetTime stores an absolute timestamp under key, replacing any previous value
	SetTime(ctx context.Context, key string, value time.Time) error
}

// RefreshNotifier asks the passive-display surface to re-read storage.
// It carries no payload: the reader always loads the latest persisted record.
type RefreshNotifier interface {
	ReloadTimelines(ctx context.Context) error
}
