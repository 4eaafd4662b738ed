package render

import (
	"sync"

	"gocv.io/x/gocv"
)

// NoKey is returned by PollKey when no key was pressed.
const NoKey = -1

// Surface displays annotated frames and reports key presses.
type Surface interface {
	Show(img gocv.Mat) error
	// PollKey returns the last key pressed, or NoKey.
	PollKey() int
	Close() error
}

// Window shows frames in a native OpenCV window.
type Window struct {
	win  *gocv.Window
	once sync.Once
}

// DefaultTitle is the window title used by the CLI.
const DefaultTitle = "Face Verification"

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show draws img in the window.
func (w *Window) Show(img gocv.Mat) error {
	w.win.IMShow(img)
	return nil
}

// PollKey pumps the window event loop for 1ms and returns the key code.
func (w *Window) PollKey() int {
	key := w.win.WaitKey(1)
	if key < 0 {
		return NoKey
	}
	return key & 0xFF
}

// Close destroys the window. Safe to call more than once.
func (w *Window) Close() error {
	var err error
	w.once.Do(func() {
		err = w.win.Close()
	})
	return err
}

// Headless discards frames and never reports keys.
type Headless struct{}

// Show does nothing.
func (Headless) Show(gocv.Mat) error { return nil }

// PollKey always returns NoKey.
func (Headless) PollKey() int { return NoKey }

// Close does nothing.
func (Headless) Close() error { return nil }

var (
	_ Surface = (*Window)(nil)
	_ Surface = Headless{}
)
