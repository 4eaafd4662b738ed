package detection

import (
	"errors"
	"image"
	"sync"

	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/debug"
	"gocv.io/x/gocv"
)

// Locator is the interface for face localization backends
type Locator interface {
	// Locate finds faces in the frame and returns their deduplicated regions
	Locate(frame camera.Frame) (Set, error)

	// Close releases resources
	Close() error
}

// Ensemble runs several cascade passes over a contrast-enhanced frame and
// fuses their proposals.
type Ensemble struct {
	passes  []Pass
	clahe   gocv.CLAHE
	overlap float64
	mu      sync.Mutex
}

// New loads every configured cascade, plus the YuNet pass when a model is
// configured, and builds the ensemble.
func New(cfg Config) (*Ensemble, error) {
	passes := make([]Pass, 0, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		c, err := NewCascade(cfg.CascadePath(p), p)
		if err != nil {
			for _, loaded := range passes {
				loaded.Close()
			}
			return nil, err
		}
		passes = append(passes, c)
	}
	if cfg.YuNet.ModelPath != "" {
		y, err := NewYuNet(cfg.YuNet)
		if err != nil {
			for _, loaded := range passes {
				loaded.Close()
			}
			return nil, err
		}
		passes = append(passes, y)
	}
	return NewWithPasses(cfg, passes...)
}

// NewWithPasses builds an ensemble over already constructed passes.
// The ensemble takes ownership of the passes.
func NewWithPasses(cfg Config, passes ...Pass) (*Ensemble, error) {
	if len(passes) == 0 {
		return nil, ErrNoProfiles
	}
	overlap := cfg.MergeOverlap
	if overlap <= 0 {
		overlap = DefaultMergeOverlap
	}
	return &Ensemble{
		passes:  passes,
		clahe:   gocv.NewCLAHEWithParams(cfg.ClipLimit, image.Pt(cfg.TileGrid, cfg.TileGrid)),
		overlap: overlap,
	}, nil
}

// Enhance converts img to grayscale, equalizes its histogram and applies
// CLAHE. The caller owns the returned Mat.
func (e *Ensemble) Enhance(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	if img.Channels() == 1 {
		img.CopyTo(&gray)
	} else {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}
	gocv.EqualizeHist(gray, &gray)

	enhanced := gocv.NewMat()
	e.clahe.Apply(gray, &enhanced)
	gray.Close()
	return enhanced
}

// Locate runs every pass and merges near-duplicate proposals.
func (e *Ensemble) Locate(frame camera.Frame) (Set, error) {
	if frame.Empty() {
		return nil, ErrEmptyFrame
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	enhanced := e.Enhance(frame.Image)
	defer enhanced.Close()

	var candidates []Region
	for _, p := range e.passes {
		rects := p.Detect(enhanced)
		debug.DetectLog("detector pass", "profile", p.Profile(), "candidates", len(rects))
		for _, r := range rects {
			candidates = append(candidates, Region{Rect: r, Profile: p.Profile()})
		}
	}

	return Merge(candidates, e.overlap), nil
}

// Close releases the passes and the CLAHE instance.
func (e *Ensemble) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for _, p := range e.passes {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.clahe.Close(); err != nil {
		errs = append(errs, err)
	}
	e.passes = nil
	return errors.Join(errs...)
}
