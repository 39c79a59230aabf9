package widget

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/bondtracker-backend/internal/logging"
)

// RenderFunc receives every timeline the scheduler pulls from the provider
type RenderFunc func(Timeline)

// Scheduler plays the host's part: it pulls a timeline, renders it, then
// sleeps until the timeline's NextRefresh or an explicit reload request.
type Scheduler struct {
	Provider *TimelineProvider
	Render   RenderFunc

	// After creates the wake-up timer; tests replace it to control time
	After func(d time.Duration) <-chan time.Time

	logger logrus.FieldLogger
}

// NewScheduler creates a new Scheduler instance
func NewScheduler(provider *TimelineProvider, render RenderFunc, logger logrus.FieldLogger) *Scheduler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scheduler{
		Provider: provider,
		Render:   render,
		After:    time.After,
		logger:   logger.WithField("component", "widget_scheduler"),
	}
}

// Run refreshes until ctx is cancelled. A nil reload channel disables explicit
// reloads and leaves only the scheduled refreshes.
func (s *Scheduler) Run(ctx context.Context, reload <-chan struct{}) error {
	for {
		timeline := s.Provider.Timeline(ctx)
		s.Render(timeline)

		wait := max(0, timeline.NextRefresh.Sub(s.Provider.Now()))
		s.logger.WithFields(logrus.Fields{
			"entries":      len(timeline.Entries),
			"next_refresh": timeline.NextRefresh.Format(time.RFC3339),
		}).Debug("widget timeline rendered")

		wake := s.After(wait)
		for waiting := true; waiting; {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-wake:
				waiting = false
			case _, ok := <-reload:
				if !ok {
					// Reload source went away; keep the scheduled refreshes only
					reload = nil
					continue
				}
				s.logger.Info("widget reload requested")
				waiting = false
			}
		}
	}
}
