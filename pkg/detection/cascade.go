package detection

import (
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// Pass is one detector profile run over a preprocessed grayscale image.
type Pass interface {
	// Profile identifies the pass in the regions it produces
	Profile() Profile

	// Detect returns raw candidate rectangles
	Detect(gray gocv.Mat) []image.Rectangle

	// Close releases resources
	Close() error
}

// Cascade is a Pass backed by an OpenCV Haar cascade.
type Cascade struct {
	classifier gocv.CascadeClassifier
	config     ProfileConfig
	mu         sync.Mutex // Protects inference
}

// NewCascade loads the cascade file at path with the profile's parameters.
func NewCascade(path string, cfg ProfileConfig) (*Cascade, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &ProfileError{Profile: cfg.Profile, Err: ErrCascadeNotFound}
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, &ProfileError{Profile: cfg.Profile, Err: ErrCascadeLoad}
	}

	return &Cascade{
		classifier: classifier,
		config:     cfg,
	}, nil
}

// Profile returns the cascade profile name.
func (c *Cascade) Profile() Profile {
	return c.config.Profile
}

// Detect runs multi-scale detection with the profile's parameters.
func (c *Cascade) Detect(gray gocv.Mat) []image.Rectangle {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.classifier.DetectMultiScaleWithParams(
		gray,
		c.config.ScaleFactor,
		c.config.MinNeighbors,
		cascadeScaleImage,
		image.Pt(c.config.MinSize, c.config.MinSize),
		image.Pt(0, 0), // no max size
	)
}

// Close releases the classifier.
func (c *Cascade) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.classifier.Close()
}
