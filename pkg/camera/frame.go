package camera

import (
	"context"
	"time"

	"gocv.io/x/gocv"
)

// Frame is one captured BGR image plus its capture time.
// A frame belongs to a single loop iteration, which must Close it.
type Frame struct {
	Image    gocv.Mat
	Captured time.Time
}

// Width returns the frame width in pixels.
func (f Frame) Width() int {
	return f.Image.Cols()
}

// Height returns the frame height in pixels.
func (f Frame) Height() int {
	return f.Image.Rows()
}

// Empty reports whether the frame carries no pixels.
func (f Frame) Empty() bool {
	return f.Image.Empty()
}

// Close releases the native image memory.
func (f Frame) Close() error {
	return f.Image.Close()
}

// Source is the interface for frame acquisition backends
type Source interface {
	// Read blocks until the next frame is available.
	// ErrNoFrame signals a transient miss.
	Read(ctx context.Context) (Frame, error)

	// Close releases the device
	Close() error
}

// Configurable is implemented by sources that accept capture settings at runtime.
type Configurable interface {
	Apply(cfg Config) error
}
