package alert

import (
	"context"
	"testing"
	"time"
)

func TestNotificationFor_TimeoutBoundsDelivery(t *testing.T) {
	for _, k := range []Kind{KindMissing, KindMismatch, KindRegistered} {
		if got := NotificationFor(k).Timeout; got != DefaultNotifyTimeout {
			t.Errorf("%s timeout = %v, want %v", k, got, DefaultNotifyTimeout)
		}
	}
}

func TestDeliveryContext(t *testing.T) {
	tests := []struct {
		name         string
		parent       time.Duration
		timeout      time.Duration
		wantDeadline bool
		wantWithin   time.Duration
	}{
		{"notification timeout applies", 0, 20 * time.Millisecond, true, 20 * time.Millisecond},
		{"shorter parent wins", 10 * time.Millisecond, time.Hour, true, 10 * time.Millisecond},
		{"no timeout keeps parent", 0, 0, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parent := context.Background()
			if tc.parent > 0 {
				var cancel context.CancelFunc
				parent, cancel = context.WithTimeout(parent, tc.parent)
				defer cancel()
			}

			start := time.Now()
			ctx, cancel := deliveryContext(parent, Notification{Timeout: tc.timeout})
			defer cancel()

			deadline, ok := ctx.Deadline()
			if ok != tc.wantDeadline {
				t.Fatalf("has deadline = %v, want %v", ok, tc.wantDeadline)
			}
			if ok && deadline.Sub(start) > tc.wantWithin {
				t.Errorf("deadline %v after start, want at most %v", deadline.Sub(start), tc.wantWithin)
			}
		})
	}
}

func TestLogNotifier_IgnoresTimeout(t *testing.T) {
	n := NewLogNotifier()
	if err := n.Notify(context.Background(), NotificationFor(KindMissing)); err != nil {
		t.Errorf("Notify: %v", err)
	}
}
