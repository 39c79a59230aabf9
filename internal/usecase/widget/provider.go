// Package widget implements the passive-display surface: a provider the host
// scheduler pulls entries from, and the loop that stands in for that host.
//
// The provider never holds a live BondStateStore. Every call re-reads the
// shared settings, so the widget only ever shows what was last persisted.
package widget

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/bondtracker-backend/internal/domain"
	"github.com/simaogato/bondtracker-backend/internal/logging"
	"github.com/simaogato/bondtracker-backend/internal/metrics"
	"github.com/simaogato/bondtracker-backend/internal/usecase/bondstore"
)

// Entry is one dated rendering of the bond state
type Entry struct {
	Date    time.Time
	State   domain.BondState
	Derived domain.DerivedFields
}

// Timeline is a short sequence of future-dated entries plus the instant the
// host should ask for a new timeline
type Timeline struct {
	Entries     []Entry
	NextRefresh time.Time
}

// TimelineProvider computes widget entries from shared storage
type TimelineProvider struct {
	Settings domain.SettingsStore
	Now      func() time.Time

	// EntriesAhead adds entries at the following local midnights, so the host
	// can keep the widget current without waking this process every day
	EntriesAhead int

	logger logrus.FieldLogger
}

// NewTimelineProvider creates a new TimelineProvider instance
func NewTimelineProvider(settings domain.SettingsStore, logger logrus.FieldLogger) *TimelineProvider {
	if logger == nil {
		logger = logging.Discard()
	}
	return &TimelineProvider{
		Settings: settings,
		Now:      time.Now,
		logger:   logger.WithField("component", "widget_provider"),
	}
}

// Placeholder returns a representative entry for layout, independent of storage
func (p *TimelineProvider) Placeholder(now time.Time) Entry {
	metrics.TimelineRequests.WithLabelValues("placeholder").Inc()

	state := domain.NewBondState(decimal.NewFromInt(20000), 1095, now.AddDate(0, 0, -100))
	return newEntry(now, state)
}

// Snapshot returns the current persisted state at a single point in time
func (p *TimelineProvider) Snapshot(ctx context.Context) Entry {
	metrics.TimelineRequests.WithLabelValues("snapshot").Inc()

	now := p.Now()
	return newEntry(now, p.load(ctx, now))
}

// Timeline returns an entry for now, EntriesAhead more at the following local
// midnights, and asks to be called again at the midnight after the last entry.
// Derived fields only change at day granularity, so waking sooner is wasted work.
func (p *TimelineProvider) Timeline(ctx context.Context) Timeline {
	metrics.TimelineRequests.WithLabelValues("timeline").Inc()

	now := p.Now()
	state := p.load(ctx, now)

	entries := make([]Entry, 0, 1+max(0, p.EntriesAhead))
	entries = append(entries, newEntry(now, state))

	at := now
	for i := 0; i < p.EntriesAhead; i++ {
		at = domain.NextMidnight(at)
		entries = append(entries, newEntry(at, state))
	}

	return Timeline{
		Entries:     entries,
		NextRefresh: domain.NextMidnight(at),
	}
}

func (p *TimelineProvider) load(ctx context.Context, now time.Time) domain.BondState {
	state, err := bondstore.LoadBondState(ctx, p.Settings, now)
	if err != nil {
		p.logger.WithError(err).Warn("bond state partially unreadable, using defaults")
	}
	metrics.StateLoads.WithLabelValues("widget").Inc()
	return state
}

func newEntry(at time.Time, state domain.BondState) Entry {
	return Entry{
		Date:    at,
		State:   state,
		Derived: state.Derive(at),
	}
}
