package memory

import (
	"context"

	"github.com/simaogato/bondtracker-backend/internal/domain"
)

// RefreshNotifier implements domain.RefreshNotifier for a passive surface living
// in the same process. Signals coalesce: while one reload is pending, further
// requests are dropped since the reader always loads the latest record anyway.
type RefreshNotifier struct {
	ch chan struct{}
}

// NewRefreshNotifier creates a notifier with a single pending-signal slot
func NewRefreshNotifier() *RefreshNotifier {
	return &RefreshNotifier{ch: make(chan struct{}, 1)}
}

// ReloadTimelines queues a reload signal without blocking
func (n *RefreshNotifier) ReloadTimelines(_ context.Context) error {
	select {
	case n.ch <- struct{}{}:
	default:
	}
	return nil
}

// Reloads returns the channel the passive surface waits on
func (n *RefreshNotifier) Reloads() <-chan struct{} {
	return n.ch
}

var _ domain.RefreshNotifier = (*RefreshNotifier)(nil)
