package identity

import (
	"fmt"

	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/detection"
)

// DefaultThreshold is the similarity at or above which two faces count as the
// same person. Lower values are stricter about raising mismatches.
const DefaultThreshold = 0.7

// Config holds verifier parameters
type Config struct {
	Threshold float64 `yaml:"threshold"`
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold}
}

// Validate checks if the config values are within valid ranges.
func (c *Config) Validate() []string {
	if c.Threshold < 0 || c.Threshold > 1 {
		return []string{"threshold must be between 0 and 1"}
	}
	return nil
}

// State is the outcome of verifying one frame.
type State struct {
	Similarity float64 `json:"similarity"`
	SamePerson bool    `json:"same_person"`

	// Registered is true only on the frame that enrolled the reference.
	Registered bool `json:"registered"`
}

// Verifier holds the enrolled reference vector and compares each confirmed
// frame's dominant face against it. It is owned by the loop goroutine and is
// not safe for concurrent use.
type Verifier struct {
	extractor Extractor
	threshold float64
	reference Vector
}

// NewVerifier creates a verifier with no reference enrolled.
func NewVerifier(cfg Config, extractor Extractor) *Verifier {
	if extractor == nil {
		extractor = MatExtractor{}
	}
	return &Verifier{
		extractor: extractor,
		threshold: cfg.Threshold,
	}
}

// Observe extracts the region's features and enrolls or compares them.
func (v *Verifier) Observe(frame camera.Frame, region detection.Region) (State, error) {
	vec, err := v.extractor.Extract(frame, region)
	if err != nil {
		return State{}, fmt.Errorf("extract features: %w", err)
	}
	return v.Compare(vec)
}

// Compare enrolls vec when no reference is set, otherwise scores it against
// the reference.
func (v *Verifier) Compare(vec Vector) (State, error) {
	if v.reference == nil {
		v.reference = vec
		return State{Similarity: 1.0, SamePerson: true, Registered: true}, nil
	}

	score, err := Similarity(v.reference, vec)
	if err != nil {
		return State{}, err
	}
	return State{
		Similarity: score,
		SamePerson: score >= v.threshold,
	}, nil
}

// Reset forgets the reference. The next observed face enrolls unconditionally.
func (v *Verifier) Reset() {
	v.reference = nil
}

// Enrolled reports whether a reference is set.
func (v *Verifier) Enrolled() bool {
	return v.reference != nil
}

// Threshold returns the configured same-person threshold.
func (v *Verifier) Threshold() float64 {
	return v.threshold
}
