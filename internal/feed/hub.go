package feed

import (
	"context"
	"fmt"

	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
	"github.com/urbanshop/urbanshop-backend/pkg/logger"
)

// Loader produces the full snapshot for a topic. It is invoked once at
// subscribe time and again after every change notification.
type Loader func(ctx context.Context) (any, error)

// notificationSource delivers change signals for a topic. The stop func
// releases the underlying subscription.
type notificationSource interface {
	Notifications(ctx context.Context, topic string) (<-chan struct{}, func(), error)
}

// Hub turns change notifications into whole-snapshot streams. Consumers get
// the current snapshot immediately and a replacement after every change.
type Hub struct {
	source notificationSource
	logg   *logger.Logger
}

// NewHub constructs a feed hub.
func NewHub(source notificationSource, logg *logger.Logger) (*Hub, error) {
	if source == nil {
		return nil, fmt.Errorf("notification source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Hub{source: source, logg: logg}, nil
}

// Subscription is one live snapshot stream. Snapshots conflate: a slow
// consumer only ever sees the latest state, never a backlog of stale ones.
// A failed reload delivers one error on Errs and then both channels close;
// the consumer re-subscribes if it still cares.
type Subscription struct {
	Snapshots <-chan any
	Errs      <-chan error
	cancel    context.CancelFunc
}

// Cancel stops the stream; both channels close shortly after.
func (s *Subscription) Cancel() {
	s.cancel()
}

// Subscribe opens a snapshot stream for the topic.
func (h *Hub) Subscribe(ctx context.Context, topic string, load Loader) (*Subscription, error) {
	if topic == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feed topic required")
	}
	if load == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feed loader required")
	}

	streamCtx, cancel := context.WithCancel(ctx)
	signals, stop, err := h.source.Notifications(streamCtx, topic)
	if err != nil {
		cancel()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open feed subscription")
	}

	snapshots := make(chan any, 1)
	errs := make(chan error, 1)

	go h.run(streamCtx, topic, load, signals, stop, snapshots, errs)

	return &Subscription{
		Snapshots: snapshots,
		Errs:      errs,
		cancel:    cancel,
	}, nil
}

func (h *Hub) run(ctx context.Context, topic string, load Loader, signals <-chan struct{}, stop func(), snapshots chan any, errs chan error) {
	defer close(snapshots)
	defer close(errs)
	defer stop()

	logCtx := h.logg.WithField(ctx, "topic", topic)

	deliver := func() bool {
		snap, err := load(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			h.logg.Error(logCtx, "feed snapshot reload failed", err)
			errs <- pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load feed snapshot")
			return false
		}
		pushLatest(snapshots, snap)
		return true
	}

	if !deliver() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				if ctx.Err() == nil {
					errs <- pkgerrors.New(pkgerrors.CodeDependency, "feed notification stream closed")
				}
				return
			}
			if !deliver() {
				return
			}
		}
	}
}

// pushLatest replaces any undelivered snapshot with the new one. The hub is
// the only writer, so after draining the buffered slot the send cannot block.
func pushLatest(snapshots chan any, snap any) {
	select {
	case snapshots <- snap:
	default:
		select {
		case <-snapshots:
		default:
		}
		snapshots <- snap
	}
}
