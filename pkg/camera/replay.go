package camera

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Register decoders
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"gocv.io/x/gocv"
)

// replayExtensions lists the file types Replay decodes.
var replayExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// ReplayConfig configures a directory replay source.
type ReplayConfig struct {
	Dir      string        `yaml:"dir"`      // Directory of still images, played in name order
	Interval time.Duration `yaml:"interval"` // Pause between frames (0 = as fast as the loop runs)
	Loop     bool          `yaml:"loop"`     // Restart from the first image after the last
}

// Replay serves still images from a directory as if they were camera frames.
// Useful for offline runs and reproducible demos.
type Replay struct {
	config ReplayConfig
	files  []string

	mu     sync.Mutex
	next   int
	last   time.Time
	closed bool
}

// OpenReplay lists the images in cfg.Dir.
func OpenReplay(cfg ReplayConfig) (*Replay, error) {
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return nil, &OpenError{Device: cfg.Dir, Err: err}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if replayExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(cfg.Dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, &OpenError{Device: cfg.Dir, Err: ErrNoImages}
	}
	sort.Strings(files)

	return &Replay{config: cfg, files: files}, nil
}

// Len returns the number of images in the replay set.
func (r *Replay) Len() int {
	return len(r.files)
}

// Read decodes the next image. Undecodable files surface as ErrNoFrame so the
// loop treats them like a dropped camera frame.
func (r *Replay) Read(ctx context.Context) (Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Frame{}, ErrClosed
	}
	if r.next >= len(r.files) {
		if !r.config.Loop {
			return Frame{}, ErrExhausted
		}
		r.next = 0
	}

	if r.config.Interval > 0 && !r.last.IsZero() {
		wait := r.config.Interval - time.Since(r.last)
		if wait > 0 {
			select {
			case <-ctx.Done():
				return Frame{}, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	path := r.files[r.next]
	r.next++
	r.last = time.Now()

	img, err := decodeFile(path)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %s: %v", ErrNoFrame, filepath.Base(path), err)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %s: %v", ErrNoFrame, filepath.Base(path), err)
	}

	return Frame{Image: mat, Captured: r.last}, nil
}

// Close stops the replay.
func (r *Replay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}
