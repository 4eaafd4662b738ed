package identity

import "errors"

// Sentinel errors for common error conditions.
var (
	// ErrEmptyRegion is returned when a face region has no pixels inside the frame.
	ErrEmptyRegion = errors.New("identity: region outside frame")

	// ErrLengthMismatch is returned when comparing vectors of different lengths.
	ErrLengthMismatch = errors.New("identity: feature vector length mismatch")

	// ErrEmptyVector is returned when comparing zero-length vectors.
	ErrEmptyVector = errors.New("identity: empty feature vector")
)
