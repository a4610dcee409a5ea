package feed

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type feedPublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
	FeedChannel(topic string) string
}

type feedSubscriber interface {
	Subscribe(ctx context.Context, channels ...string) (*goredis.PubSub, error)
	FeedChannel(topic string) string
}

// Notifier publishes change signals over redis pub/sub. The payload is just
// a timestamp; subscribers reload the full snapshot regardless.
type Notifier struct {
	redis feedPublisher
}

// NewNotifier constructs a redis-backed change notifier.
func NewNotifier(redis feedPublisher) (*Notifier, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &Notifier{redis: redis}, nil
}

// NotifyChanged signals that the topic's data changed.
func (n *Notifier) NotifyChanged(ctx context.Context, topic string) error {
	return n.redis.Publish(ctx, n.redis.FeedChannel(topic), time.Now().UTC().Format(time.RFC3339Nano))
}

// RedisSource adapts redis pub/sub into the hub's notification contract.
type RedisSource struct {
	redis feedSubscriber
}

// NewRedisSource constructs a pub/sub notification source.
func NewRedisSource(redis feedSubscriber) (*RedisSource, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisSource{redis: redis}, nil
}

// Notifications opens a subscription on the topic's channel. Bursts of
// messages collapse into a single pending signal.
func (s *RedisSource) Notifications(ctx context.Context, topic string) (<-chan struct{}, func(), error) {
	pubsub, err := s.redis.Subscribe(ctx, s.redis.FeedChannel(topic))
	if err != nil {
		return nil, nil, err
	}

	signals := make(chan struct{}, 1)
	go func() {
		defer close(signals)
		for range pubsub.Channel() {
			select {
			case signals <- struct{}{}:
			default:
			}
		}
	}()

	stop := func() { _ = pubsub.Close() }
	return signals, stop, nil
}
