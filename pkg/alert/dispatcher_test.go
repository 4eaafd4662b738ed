package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDispatcher_NotifiesAndLogs(t *testing.T) {
	notifier := NewMock()
	sink := NewMock()
	d := NewDispatcher(notifier, sink, time.Second)

	var mu sync.Mutex
	var seen []Kind
	d.AddListener(func(ev Event) {
		mu.Lock()
		seen = append(seen, ev.Kind)
		mu.Unlock()
	})

	d.Dispatch(Event{Kind: KindRegistered, At: t0})
	d.Dispatch(Event{Kind: KindMissing, At: t0})
	d.Dispatch(Event{Kind: KindMismatch, At: t0, Similarity: 0.41})

	if !d.Wait(2 * time.Second) {
		t.Fatal("dispatcher did not drain")
	}

	if got := len(notifier.Notifications()); got != 3 {
		t.Errorf("notifications = %d, want 3", got)
	}
	events := sink.Events()
	if len(events) != 2 {
		t.Fatalf("sink events = %d, want 2 (registered is not logged)", len(events))
	}
	for _, ev := range events {
		if ev.Kind == KindRegistered {
			t.Error("registered event reached the log sink")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Errorf("listener saw %d events, want 3", len(seen))
	}
}

func TestDispatcher_UsesFixedMessages(t *testing.T) {
	notifier := NewMock()
	d := NewDispatcher(notifier, nil, time.Second)

	d.Dispatch(Event{Kind: KindMissing, At: t0})
	d.Wait(time.Second)

	titles := notifier.Titles()
	if len(titles) != 1 || titles[0] != "Face Not Detected!" {
		t.Errorf("titles = %v", titles)
	}
	n := notifier.Notifications()[0]
	if n.Message != "Please position your face in front of the camera." {
		t.Errorf("message = %q", n.Message)
	}
	if n.Timeout != 2*time.Second {
		t.Errorf("timeout = %v, want 2s", n.Timeout)
	}
}

func TestDispatcher_FailuresAreContained(t *testing.T) {
	notifier := &Mock{
		NotifyFunc: func(context.Context, Notification) error {
			panic("notification backend exploded")
		},
	}
	sink := &Mock{
		AppendFunc: func(Event) error {
			return errors.New("disk full")
		},
	}
	d := NewDispatcher(notifier, sink, time.Second)

	d.Dispatch(Event{Kind: KindMismatch, At: t0})

	if !d.Wait(2 * time.Second) {
		t.Fatal("failing tasks should still complete")
	}
	if len(sink.Events()) != 1 {
		t.Error("append should have been attempted")
	}
}

func TestDispatcher_DoesNotBlockOnSlowNotifier(t *testing.T) {
	release := make(chan struct{})
	notifier := &Mock{
		NotifyFunc: func(ctx context.Context, _ Notification) error {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return nil
		},
	}
	d := NewDispatcher(notifier, nil, 5*time.Second)

	start := time.Now()
	d.Dispatch(Event{Kind: KindMissing, At: t0})
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Dispatch blocked for %v", elapsed)
	}

	if d.Wait(50 * time.Millisecond) {
		t.Error("Wait should time out while the notifier is blocked")
	}
	close(release)
	if !d.Wait(time.Second) {
		t.Error("Wait should succeed after release")
	}
}
