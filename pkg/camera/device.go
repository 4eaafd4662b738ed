package camera

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/facewatch/internal/log"
	"gocv.io/x/gocv"
)

// Device reads frames from a local webcam or stream through OpenCV.
type Device struct {
	capture *gocv.VideoCapture
	config  Config
	logger  *slog.Logger

	mu     sync.Mutex // Protects capture
	closed bool
}

// Open opens the capture device named by cfg.Device and applies cfg.
func Open(cfg Config) (*Device, error) {
	var target interface{} = cfg.Device
	if id, ok := cfg.DeviceID(); ok {
		target = id
	}

	capture, err := gocv.OpenVideoCapture(target)
	if err != nil {
		return nil, &OpenError{Device: cfg.Device, Err: err}
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, &OpenError{Device: cfg.Device, Err: errors.New("device not opened")}
	}

	d := &Device{
		capture: capture,
		config:  cfg,
		logger:  log.With("component", "camera", "device", cfg.Device),
	}
	d.applyLocked(cfg)

	d.logger.Info("camera opened",
		"width", cfg.Width, "height", cfg.Height, "fps", cfg.Framerate,
		"buffer", cfg.BufferSize)
	return d, nil
}

// Read grabs the next frame. A failed grab is reported as ErrNoFrame.
func (d *Device) Read(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Frame{}, ErrClosed
	}

	img := gocv.NewMat()
	if ok := d.capture.Read(&img); !ok || img.Empty() {
		img.Close()
		return Frame{}, ErrNoFrame
	}

	return Frame{Image: img, Captured: time.Now()}, nil
}

// Apply pushes new capture settings to the driver.
// Drivers silently ignore properties they do not support.
func (d *Device) Apply(cfg Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	d.applyLocked(cfg)
	d.config = cfg
	return nil
}

func (d *Device) applyLocked(cfg Config) {
	d.capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	d.capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	d.capture.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))
	d.capture.Set(gocv.VideoCaptureBufferSize, float64(cfg.BufferSize))
	if cfg.Brightness > 0 {
		d.capture.Set(gocv.VideoCaptureBrightness, cfg.Brightness)
	}
	if cfg.Contrast > 0 {
		d.capture.Set(gocv.VideoCaptureContrast, cfg.Contrast)
	}
}

// Config returns the settings last applied to the device.
func (d *Device) Config() Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config
}

// Close releases the capture device. Safe to call more than once.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.logger.Info("camera released")
	return d.capture.Close()
}
