package bondstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/bondtracker-backend/internal/domain"
	"github.com/simaogato/bondtracker-backend/internal/logging"
	"github.com/simaogato/bondtracker-backend/internal/metrics"
)

// Observer is called synchronously with the new state after every successful save
type Observer func(state domain.BondState)

type subscription struct {
	id uuid.UUID
	fn Observer
}

// BondStateStore owns the live BondState of the interactive process.
// It is the single writer of the shared settings record.
type BondStateStore struct {
	Settings domain.SettingsStore
	Notifier domain.RefreshNotifier // optional
	Now      func() time.Time

	logger logrus.FieldLogger

	mu        sync.RWMutex
	current   domain.BondState
	observers []subscription
}

// NewBondStateStore creates a new BondStateStore instance.
// The live state starts unconfigured until Load is called.
func NewBondStateStore(settings domain.SettingsStore, notifier domain.RefreshNotifier, logger logrus.FieldLogger) *BondStateStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &BondStateStore{
		Settings: settings,
		Notifier: notifier,
		Now:      time.Now,
		logger:   logger.WithField("component", "bond_state_store"),
		current:  domain.BondState{TotalAmount: decimal.Zero},
	}
}

// Load reads the persisted record into the live state and returns it.
// Missing or unreadable values fall back to (0, 0, now); Load never fails.
func (s *BondStateStore) Load(ctx context.Context) domain.BondState {
	state, err := LoadBondState(ctx, s.Settings, s.Now())
	if err != nil {
		s.logger.WithError(err).Warn("bond state partially unreadable, using defaults")
	}
	metrics.StateLoads.WithLabelValues("interactive").Inc()

	s.mu.Lock()
	s.current = state
	s.mu.Unlock()

	return state
}

// Current returns a copy of the live state
func (s *BondStateStore) Current() domain.BondState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save persists state, replaces the live state, then notifies observers and
// the passive-display surface. It does not validate: callers reject bad input.
// On a storage error the live state is kept and nobody is notified.
func (s *BondStateStore) Save(ctx context.Context, state domain.BondState) error {
	if err := writeBondState(ctx, s.Settings, state); err != nil {
		metrics.StateSaves.WithLabelValues("error").Inc()
		return err
	}
	metrics.StateSaves.WithLabelValues("ok").Inc()

	s.mu.Lock()
	s.current = state
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, sub := range observers {
		sub.fn(state)
	}

	if s.Notifier != nil {
		if err := s.Notifier.ReloadTimelines(ctx); err != nil {
			// The record is already durable; the widget catches up on its next scheduled refresh
			s.logger.WithError(err).Warn("failed to signal widget reload")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"total_amount":       state.TotalAmount.String(),
		"total_service_days": state.TotalServiceDays,
		"start_date":         state.StartDate.Format(time.DateOnly),
	}).Info("bond state saved")

	return nil
}

// Subscribe registers an observer and returns the handle used to unsubscribe
func (s *BondStateStore) Subscribe(fn Observer) uuid.UUID {
	id := uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, subscription{id: id, fn: fn})

	return id
}

// Unsubscribe removes an observer, reporting whether the handle was registered
func (s *BondStateStore) Unsubscribe(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.observers, func(sub subscription) bool { return sub.id == id })
	if i < 0 {
		return false
	}
	s.observers = slices.Delete(s.observers, i, i+1)
	return true
}

// LoadBondState reads the three shared keys without touching any live store.
// The passive-display surface calls it on every refresh. The returned state is
// always usable; err joins any storage failures that were replaced by defaults.
func LoadBondState(ctx context.Context, settings domain.SettingsStore, now time.Time) (domain.BondState, error) {
	state := domain.BondState{
		TotalAmount: decimal.Zero,
		StartDate:   now,
	}

	var errs []error

	amount, ok, err := settings.GetFloat(ctx, domain.KeyTotalBondAmount)
	switch {
	case err != nil:
		errs = append(errs, storageError(domain.KeyTotalBondAmount, "get", err))
	case ok && (math.IsInf(amount, 0) || math.IsNaN(amount)):
		errs = append(errs, storageError(domain.KeyTotalBondAmount, "get",
			fmt.Errorf("%v is not a finite amount: %w", amount, domain.ErrInvalidStoredValue)))
	case ok:
		state.TotalAmount = decimal.NewFromFloat(amount)
	}

	days, ok, err := settings.GetInt(ctx, domain.KeyTotalServiceDays)
	switch {
	case err != nil:
		errs = append(errs, storageError(domain.KeyTotalServiceDays, "get", err))
	case ok:
		state.TotalServiceDays = days
	}

	start, ok, err := settings.GetTime(ctx, domain.KeyStartDate)
	switch {
	case err != nil:
		errs = append(errs, storageError(domain.KeyStartDate, "get", err))
	case ok:
		state.StartDate = start
	}

	return state, errors.Join(errs...)
}

// writeBondState stores the amount as a float64, so only amounts that survive
// that conversion round-trip exactly; setup.ParseInput rejects the rest.
func writeBondState(ctx context.Context, settings domain.SettingsStore, state domain.BondState) error {
	if err := settings.SetFloat(ctx, domain.KeyTotalBondAmount, state.TotalAmount.InexactFloat64()); err != nil {
		return storageError(domain.KeyTotalBondAmount, "set", err)
	}
	if err := settings.SetInt(ctx, domain.KeyTotalServiceDays, state.TotalServiceDays); err != nil {
		return storageError(domain.KeyTotalServiceDays, "set", err)
	}
	if err := settings.SetTime(ctx, domain.KeyStartDate, state.StartDate); err != nil {
		return storageError(domain.KeyStartDate, "set", err)
	}
	return nil
}

func storageError(key, op string, err error) error {
	metrics.StorageErrors.WithLabelValues(key, op).Inc()
	return fmt.Errorf("failed to %s %s: %w", op, key, err)
}
