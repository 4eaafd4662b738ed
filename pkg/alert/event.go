// Package alert decides when the operator is told about a missing face or a
// different person, and delivers those alerts as desktop notifications and
// append-only log records.
package alert

import (
	"fmt"
	"time"
)

// Kind identifies what an alert is about.
type Kind int

const (
	// KindMissing fires after the face has been absent longer than the cooldown.
	KindMissing Kind = iota
	// KindMismatch fires when the dominant face is not the enrolled person.
	KindMismatch
	// KindRegistered announces a new reference face. It is never throttled.
	KindRegistered
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindMismatch:
		return "mismatch"
	case KindRegistered:
		return "registered"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText lets Kind serialize as its name in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one alert the loop decided to emit.
type Event struct {
	Kind Kind      `json:"kind"`
	At   time.Time `json:"at"`
	// Similarity is set for mismatch events.
	Similarity float64 `json:"similarity,omitempty"`
}

// Notification is what the operator sees on the desktop.
type Notification struct {
	Title   string
	Message string

	// Timeout bounds how long a notifier may take to deliver the
	// notification. It does not control how long the popup stays on screen;
	// the OS notification center decides that.
	Timeout time.Duration
}

// DefaultNotifyTimeout bounds a single notification delivery.
const DefaultNotifyTimeout = 2 * time.Second

// NotificationFor returns the fixed title and message for a kind.
func NotificationFor(k Kind) Notification {
	n := Notification{Timeout: DefaultNotifyTimeout}
	switch k {
	case KindMissing:
		n.Title = "Face Not Detected!"
		n.Message = "Please position your face in front of the camera."
	case KindMismatch:
		n.Title = "Different Person Detected!"
		n.Message = "Please ensure the same person continues the process."
	case KindRegistered:
		n.Title = "Face Registered"
		n.Message = "Your face has been registered for verification."
	}
	return n
}
