package detection

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrEmptyFrame is returned when asked to locate faces in an empty image.
	ErrEmptyFrame = errors.New("detection: empty frame")

	// ErrCascadeNotFound is returned when a profile's cascade file is missing.
	ErrCascadeNotFound = errors.New("detection: cascade file not found")

	// ErrCascadeLoad is returned when OpenCV rejects a cascade file.
	ErrCascadeLoad = errors.New("detection: cascade failed to load")

	// ErrNoProfiles is returned when an ensemble is built with no passes.
	ErrNoProfiles = errors.New("detection: no detector profiles configured")
)

// ProfileError wraps an error with profile context.
type ProfileError struct {
	Profile Profile
	Err     error
}

// Error implements the error interface.
func (e *ProfileError) Error() string {
	return fmt.Sprintf("detection [%s]: %v", e.Profile, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProfileError) Unwrap() error {
	return e.Err
}
