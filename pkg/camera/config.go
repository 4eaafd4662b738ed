// Package camera provides frame acquisition for the verification loop:
// the Frame type, a gocv capture device, a directory replay source, and
// runtime-configurable capture settings.
package camera

import "strconv"

// Config holds all capture configuration parameters.
// These can be modified via the dashboard camera API at runtime.
type Config struct {
	// Device is a capture index ("0") or a file/stream URL.
	Device string `json:"device" yaml:"device"`

	// === Resolution ===
	Width     int `json:"width" yaml:"width"`         // Frame width in pixels
	Height    int `json:"height" yaml:"height"`       // Frame height in pixels
	Framerate int `json:"framerate" yaml:"framerate"` // Target FPS

	// BufferSize is the driver-side frame queue. 1 keeps frames fresh.
	BufferSize int `json:"buffer_size" yaml:"buffer_size"`

	// === Source bias ===
	// Brightness and Contrast are passed to the driver as-is (0-255 on most
	// UVC webcams). 0 leaves the driver default untouched.
	Brightness float64 `json:"brightness" yaml:"brightness"`
	Contrast   float64 `json:"contrast" yaml:"contrast"`
}

// Capture limits accepted by Validate.
const (
	MaxWidth     = 3840
	MaxHeight    = 2160
	MaxFramerate = 120
	MaxBias      = 255.0
)

// DefaultConfig returns the verification loop capture settings:
// 640x480 at 30 fps with a single-frame buffer and a slight brightness and
// contrast lift for low-light rooms.
func DefaultConfig() Config {
	return Config{
		Device:     "0",
		Width:      640,
		Height:     480,
		Framerate:  30,
		BufferSize: 1,
		Brightness: 150,
		Contrast:   150,
	}
}

// DeviceID returns the capture index when Device is numeric, and ok=false for
// paths and URLs.
func (c *Config) DeviceID() (int, bool) {
	id, err := strconv.Atoi(c.Device)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device == "" {
		errors = append(errors, "device is required")
	}
	if c.Width < 160 || c.Width > MaxWidth {
		errors = append(errors, "width must be between 160 and 3840")
	}
	if c.Height < 120 || c.Height > MaxHeight {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > MaxFramerate {
		errors = append(errors, "framerate must be between 1 and 120")
	}
	if c.BufferSize < 1 || c.BufferSize > 16 {
		errors = append(errors, "buffer_size must be between 1 and 16")
	}
	if c.Brightness < 0 || c.Brightness > MaxBias {
		errors = append(errors, "brightness must be between 0 and 255")
	}
	if c.Contrast < 0 || c.Contrast > MaxBias {
		errors = append(errors, "contrast must be between 0 and 255")
	}

	return errors
}
