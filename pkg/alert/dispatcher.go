package alert

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/teslashibe/facewatch/internal/log"
)

// Listener observes every dispatched event. Listeners run on the caller's
// goroutine and must not block.
type Listener func(Event)

// Dispatcher delivers alerts without blocking the loop. Each notification
// and each log append runs on its own goroutine; failures are logged and
// never returned to the caller.
type Dispatcher struct {
	notifier Notifier
	sink     Sink
	timeout  time.Duration
	logger   *slog.Logger

	wg sync.WaitGroup

	mu        sync.RWMutex
	listeners []Listener
}

// NewDispatcher creates a dispatcher. A nil sink disables log records.
func NewDispatcher(notifier Notifier, sink Sink, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &Dispatcher{
		notifier: notifier,
		sink:     sink,
		timeout:  timeout,
		logger:   log.With("component", "alert"),
	}
}

// AddListener registers l for all future events.
func (d *Dispatcher) AddListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Dispatch emits ev and returns immediately.
func (d *Dispatcher) Dispatch(ev Event) {
	d.logger.Info("alert", "kind", ev.Kind, "at", ev.At.Format(timestampLayout))

	if d.notifier != nil {
		d.spawn("notify", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			return d.notifier.Notify(ctx, NotificationFor(ev.Kind))
		})
	}
	if d.sink != nil && ev.Kind != KindRegistered {
		d.spawn("append", func() error {
			return d.sink.Append(ev)
		})
	}

	d.mu.RLock()
	listeners := d.listeners
	d.mu.RUnlock()
	for _, l := range listeners {
		l(ev)
	}
}

func (d *Dispatcher) spawn(op string, fn func() error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Warn("alert task panicked", "op", op, "panic", r, "stack", string(debug.Stack()))
			}
		}()
		if err := fn(); err != nil {
			d.logger.Warn("alert task failed", "op", op, "error", err)
		}
	}()
}

// Wait blocks until every in-flight task finishes or timeout elapses.
// It reports whether all tasks finished.
func (d *Dispatcher) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
