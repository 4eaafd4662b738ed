package camera

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNoFrame is returned when the source produced no frame this cycle.
	// It is transient: the caller should pause briefly and read again.
	ErrNoFrame = errors.New("camera: no frame available")

	// ErrClosed is returned when reading from a closed source.
	ErrClosed = errors.New("camera: source closed")

	// ErrExhausted is returned by a non-looping replay source after its last frame.
	ErrExhausted = errors.New("camera: replay exhausted")

	// ErrNoImages is returned when a replay directory has no decodable images.
	ErrNoImages = errors.New("camera: no images found")
)

// OpenError reports a capture device that could not be opened.
type OpenError struct {
	Device string
	Err    error
}

// Error implements the error interface.
func (e *OpenError) Error() string {
	return fmt.Sprintf("camera: open %q: %v", e.Device, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpenError) Unwrap() error {
	return e.Err
}
