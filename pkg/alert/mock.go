package alert

import (
	"context"
	"sync"
)

// Mock implements Notifier and Sink for testing.
// All methods can be customized via function fields.
type Mock struct {
	// NotifyFunc is called when Notify is invoked.
	// If nil, returns nil.
	NotifyFunc func(ctx context.Context, n Notification) error

	// AppendFunc is called when Append is invoked.
	// If nil, returns nil.
	AppendFunc func(ev Event) error

	mu            sync.Mutex
	notifications []Notification
	events        []Event
}

// NewMock creates a mock that records everything and never fails.
func NewMock() *Mock {
	return &Mock{}
}

// Notify records n and calls NotifyFunc.
func (m *Mock) Notify(ctx context.Context, n Notification) error {
	m.mu.Lock()
	m.notifications = append(m.notifications, n)
	m.mu.Unlock()
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, n)
	}
	return nil
}

// Append records ev and calls AppendFunc.
func (m *Mock) Append(ev Event) error {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	if m.AppendFunc != nil {
		return m.AppendFunc(ev)
	}
	return nil
}

// Notifications returns all recorded notifications.
func (m *Mock) Notifications() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// Events returns all appended events.
func (m *Mock) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Titles returns the titles of recorded notifications in order.
func (m *Mock) Titles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.notifications))
	for i, n := range m.notifications {
		out[i] = n.Title
	}
	return out
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = nil
	m.events = nil
}

var (
	_ Notifier = (*Mock)(nil)
	_ Sink     = (*Mock)(nil)
)
