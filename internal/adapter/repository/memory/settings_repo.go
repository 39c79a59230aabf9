// Package memory provides in-process implementations of the storage and
// refresh capabilities. Two stores built on the same Settings instance observe
// the same record, which is how tests stand in for the shared namespace.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/simaogato/bondtracker-backend/internal/domain"
)

// Settings implements domain.SettingsStore on a map guarded by a mutex
type Settings struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewSettings creates an empty in-memory settings store
func NewSettings() *Settings {
	return &Settings{values: make(map[string]any)}
}

// GetFloat retrieves a float value by key
func (s *Settings) GetFloat(_ context.Context, key string) (float64, bool, error) {
	v, ok := s.get(key)
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case int:
		return float64(n), true, nil
	}
	return 0, false, fmt.Errorf("key %q holds %T: %w", key, v, domain.ErrInvalidStoredValue)
}

// GetInt retrieves an integer value by key
func (s *Settings) GetInt(_ context.Context, key string) (int, bool, error) {
	v, ok := s.get(key)
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case float64:
		return int(n), true, nil
	}
	return 0, false, fmt.Errorf("key %q holds %T: %w", key, v, domain.ErrInvalidStoredValue)
}

// GetTime retrieves a timestamp by key
func (s *Settings) GetTime(_ context.Context, key string) (time.Time, bool, error) {
	v, ok := s.get(key)
	if !ok {
		return time.Time{}, false, nil
	}
	t, isTime := v.(time.Time)
	if !isTime {
		return time.Time{}, false, fmt.Errorf("key %q holds %T: %w", key, v, domain.ErrInvalidStoredValue)
	}
	return t, true, nil
}

// SetFloat stores a float value under key
func (s *Settings) SetFloat(_ context.Context, key string, value float64) error {
	s.set(key, value)
	return nil
}

// SetInt stores an integer value under key
func (s *Settings) SetInt(_ context.Context, key string, value int) error {
	s.set(key, value)
	return nil
}

// SetTime stores a timestamp under key
func (s *Settings) SetTime(_ context.Context, key string, value time.Time) error {
	s.set(key, value)
	return nil
}

// Delete removes a key, returning the store to the never-written state for it
func (s *Settings) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func (s *Settings) get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Settings) set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

var _ domain.SettingsStore = (*Settings)(nil)
