package monitor

import (
	"errors"
	"fmt"

	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/detection"
	"github.com/teslashibe/facewatch/pkg/identity"
)

// FatalError ends the loop. Op names the stage that failed.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("monitor: %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err should be retried after a short pause
// instead of ending the loop.
func IsTransient(err error) bool {
	return errors.Is(err, camera.ErrNoFrame) ||
		errors.Is(err, detection.ErrEmptyFrame) ||
		errors.Is(err, identity.ErrEmptyRegion)
}

// stepError tags an error with the stage it came from.
type stepError struct {
	op  string
	err error
}

func (e *stepError) Error() string { return e.op + ": " + e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

func wrapStep(op string, err error) error {
	if err == nil {
		return nil
	}
	return &stepError{op: op, err: err}
}

func fatal(err error) *FatalError {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe
	}
	var se *stepError
	if errors.As(err, &se) {
		return &FatalError{Op: se.op, Err: se.err}
	}
	return &FatalError{Op: "loop", Err: err}
}
