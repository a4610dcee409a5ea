package feed

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
	"github.com/urbanshop/urbanshop-backend/pkg/logger"
)

type fakeSource struct {
	signals chan struct{}
	stopped atomic.Bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{signals: make(chan struct{}, 1)}
}

func (f *fakeSource) Notifications(ctx context.Context, topic string) (<-chan struct{}, func(), error) {
	return f.signals, func() { f.stopped.Store(true) }, nil
}

func (f *fakeSource) notify() {
	f.signals <- struct{}{}
}

func newTestHub(t *testing.T, source notificationSource) *Hub {
	t.Helper()
	hub, err := NewHub(source, logger.New(logger.Options{
		ServiceName: "feed-test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	}))
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	return hub
}

func recvSnapshot(t *testing.T, sub *Subscription) any {
	t.Helper()
	select {
	case snap, ok := <-sub.Snapshots:
		if !ok {
			t.Fatalf("snapshot channel closed")
		}
		return snap
	case err := <-sub.Errs:
		t.Fatalf("unexpected feed error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for snapshot")
	}
	return nil
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	hub := newTestHub(t, newFakeSource())

	sub, err := hub.Subscribe(context.Background(), "products", func(ctx context.Context) (any, error) {
		return "v1", nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Cancel()

	if got := recvSnapshot(t, sub); got != "v1" {
		t.Fatalf("expected initial snapshot, got %v", got)
	}
}

func TestNotificationReplacesSnapshot(t *testing.T) {
	source := newFakeSource()
	hub := newTestHub(t, source)

	var version atomic.Int32
	version.Store(1)
	sub, err := hub.Subscribe(context.Background(), "products", func(ctx context.Context) (any, error) {
		return int(version.Load()), nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Cancel()

	if got := recvSnapshot(t, sub); got != 1 {
		t.Fatalf("expected snapshot 1, got %v", got)
	}

	version.Store(2)
	source.notify()
	if got := recvSnapshot(t, sub); got != 2 {
		t.Fatalf("expected reloaded snapshot 2, got %v", got)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	source := newFakeSource()
	hub := newTestHub(t, source)

	sub, err := hub.Subscribe(context.Background(), "products", func(ctx context.Context) (any, error) {
		return "snap", nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	recvSnapshot(t, sub)
	sub.Cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Snapshots:
			if !ok {
				if !source.stopped.Load() {
					t.Fatalf("underlying subscription was not released")
				}
				return
			}
		case <-deadline:
			t.Fatalf("snapshot channel never closed after cancel")
		}
	}
}

func TestLoaderFailureIsTerminal(t *testing.T) {
	source := newFakeSource()
	hub := newTestHub(t, source)

	var calls atomic.Int32
	sub, err := hub.Subscribe(context.Background(), "products", func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return "snap", nil
		}
		return nil, errors.New("db down")
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Cancel()

	recvSnapshot(t, sub)
	source.notify()

	select {
	case feedErr := <-sub.Errs:
		typed := pkgerrors.As(feedErr)
		if typed == nil || typed.Code() != pkgerrors.CodeDependency {
			t.Fatalf("expected dependency error, got %v", feedErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for feed error")
	}

	// the stream is done after a failed reload
	select {
	case _, ok := <-sub.Snapshots:
		if ok {
			t.Fatalf("expected no more snapshots after failure")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("snapshot channel never closed after failure")
	}
}
