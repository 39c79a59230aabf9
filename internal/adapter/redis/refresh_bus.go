package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/bondtracker-backend/internal/domain"
	"github.com/simaogato/bondtracker-backend/internal/logging"
)

// DefaultChannel is the pub/sub channel reload requests are published on
const DefaultChannel = "bondtracker:reload"

// RefreshBus implements domain.RefreshNotifier over Redis pub/sub.
// The payload is the settings namespace so daemons bound to other
// namespaces can ignore it.
type RefreshBus struct {
	rdb       *redis.Client
	channel   string
	namespace string
	logger    logrus.FieldLogger
}

// NewRefreshBus creates a refresh bus for namespace on channel
func NewRefreshBus(c *Client, channel, namespace string, logger logrus.FieldLogger) *RefreshBus {
	if channel == "" {
		channel = DefaultChannel
	}
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &RefreshBus{rdb: c.rdb, channel: channel, namespace: namespace, logger: logger}
}

// Channel returns the pub/sub channel name
func (b *RefreshBus) Channel() string {
	return b.channel
}

// ReloadTimelines publishes a reload request for the bus namespace
func (b *RefreshBus) ReloadTimelines(ctx context.Context) error {
	if err := b.rdb.Publish(ctx, b.channel, b.namespace).Err(); err != nil {
		return fmt.Errorf("failed to publish reload on %s: %w", b.channel, err)
	}
	return nil
}

// Subscribe returns a channel that receives one signal per reload request for
// the bus namespace. Bursts collapse into a single pending signal. The channel
// is closed once ctx is cancelled or the subscription drops.
func (b *RefreshBus) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	pubsub := b.rdb.Subscribe(ctx, b.channel)

	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					b.logger.WithField("channel", b.channel).Warn("reload subscription closed")
					return
				}
				if !b.matches(msg.Payload) {
					continue
				}
				signal(out)
			}
		}
	}()

	return out, nil
}

func (b *RefreshBus) matches(payload string) bool {
	// Empty payloads come from publishers that predate namespaces
	return payload == "" || payload == b.namespace
}

// signal performs a non-blocking send; a pending signal already covers this one
func signal(out chan<- struct{}) {
	select {
	case out <- struct{}{}:
	default:
	}
}

var _ domain.RefreshNotifier = (*RefreshBus)(nil)
