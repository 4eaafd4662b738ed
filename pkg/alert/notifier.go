package alert

import (
	"context"
	"log/slog"

	"github.com/gen2brain/beeep"

	"github.com/teslashibe/facewatch/internal/log"
)

// Notifier shows a notification to the operator.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Desktop delivers notifications through the OS notification center.
type Desktop struct {
	// Icon is an optional path to an icon file.
	Icon string
}

// NewDesktop creates a desktop notifier that announces itself as appName.
func NewDesktop(appName string) *Desktop {
	if appName != "" {
		beeep.AppName = appName
	}
	return &Desktop{}
}

// Notify shows n and waits for the platform call to return, ctx to expire,
// or n.Timeout to pass, whichever comes first. beeep cannot set how long
// the popup stays visible, so n.Timeout only bounds delivery. beeep has no
// cancellation either: an expired call keeps running in the background and
// its result is discarded.
func (d *Desktop) Notify(ctx context.Context, n Notification) error {
	ctx, cancel := deliveryContext(ctx, n)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- beeep.Notify(n.Title, n.Message, d.Icon)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrNotifyTimeout
	}
}

// deliveryContext narrows ctx to n.Timeout when one is set.
func deliveryContext(ctx context.Context, n Notification) (context.Context, context.CancelFunc) {
	if n.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, n.Timeout)
}

// LogNotifier writes notifications to the structured log. Used on hosts
// without a desktop session.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs at warn level.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: log.With("component", "notify")}
}

// Notify logs n.
func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Warn(n.Title, "message", n.Message)
	return nil
}

var (
	_ Notifier = (*Desktop)(nil)
	_ Notifier = (*LogNotifier)(nil)
)
