package alert

import (
	"errors"
	"fmt"
)

var (
	// ErrNotifyTimeout is returned when a desktop notification did not
	// complete within the configured timeout.
	ErrNotifyTimeout = errors.New("alert: notification timed out")

	// ErrNoLogDir is returned when a file sink is created without a directory.
	ErrNoLogDir = errors.New("alert: log directory not set")
)

// SinkError wraps a failed append to one of the alert log files.
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("alert: append %s: %v", e.Path, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
