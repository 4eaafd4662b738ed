package detection

import (
	"fmt"
	"path/filepath"
)

// cascadeScaleImage mirrors OpenCV's CASCADE_SCALE_IMAGE flag.
const cascadeScaleImage = 2

// ProfileConfig holds the sensitivity parameters of one cascade pass.
type ProfileConfig struct {
	Profile      Profile `yaml:"profile"`
	ScaleFactor  float64 `yaml:"scale_factor"`  // Pyramid step between scales
	MinNeighbors int     `yaml:"min_neighbors"` // Votes required to keep a candidate
	MinSize      int     `yaml:"min_size"`      // Smallest face edge in pixels
}

// File returns the cascade file name for the profile.
func (p ProfileConfig) File() string {
	return "haarcascade_" + string(p.Profile) + ".xml"
}

// Config holds ensemble configuration
type Config struct {
	CascadeDir   string          `yaml:"cascade_dir"`   // Directory with haarcascade_*.xml
	Profiles     []ProfileConfig `yaml:"profiles"`      // Passes to run, in order
	ClipLimit    float64         `yaml:"clip_limit"`    // CLAHE contrast limit
	TileGrid     int             `yaml:"tile_grid"`     // CLAHE tiles per side
	MergeOverlap float64         `yaml:"merge_overlap"` // Mutual overlap that merges two proposals
	YuNet        YuNetConfig     `yaml:"yunet"`         // Optional DNN pass
}

// DefaultProfiles returns the three-pass ensemble:
// a strict standard pass, a fine-step sensitive pass, and an intermediate alternate pass.
func DefaultProfiles() []ProfileConfig {
	return []ProfileConfig{
		{Profile: ProfileDefault, ScaleFactor: 1.1, MinNeighbors: 4, MinSize: 30},
		{Profile: ProfileAlt, ScaleFactor: 1.05, MinNeighbors: 3, MinSize: 25},
		{Profile: ProfileAlt2, ScaleFactor: 1.08, MinNeighbors: 3, MinSize: 25},
	}
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{
		CascadeDir:   "models/haarcascades",
		Profiles:     DefaultProfiles(),
		ClipLimit:    2.0,
		TileGrid:     8,
		MergeOverlap: DefaultMergeOverlap,
		YuNet:        DefaultYuNetConfig(),
	}
}

// CascadePath returns the full path of a profile's cascade file.
func (c Config) CascadePath(p ProfileConfig) string {
	return filepath.Join(c.CascadeDir, p.File())
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if len(c.Profiles) == 0 {
		errors = append(errors, "at least one profile is required")
	}
	for _, p := range c.Profiles {
		if p.Profile == "" {
			errors = append(errors, "profile name is required")
		}
		if p.ScaleFactor <= 1.0 {
			errors = append(errors, fmt.Sprintf("%s: scale_factor must be greater than 1.0", p.Profile))
		}
		if p.MinNeighbors < 0 {
			errors = append(errors, fmt.Sprintf("%s: min_neighbors must not be negative", p.Profile))
		}
		if p.MinSize < 1 {
			errors = append(errors, fmt.Sprintf("%s: min_size must be positive", p.Profile))
		}
	}
	if c.ClipLimit <= 0 {
		errors = append(errors, "clip_limit must be positive")
	}
	if c.TileGrid < 1 {
		errors = append(errors, "tile_grid must be at least 1")
	}
	if c.MergeOverlap <= 0 || c.MergeOverlap > 1 {
		errors = append(errors, "merge_overlap must be in (0, 1]")
	}
	if c.YuNet.ModelPath != "" {
		if c.YuNet.ScoreThreshold <= 0 || c.YuNet.ScoreThreshold > 1 {
			errors = append(errors, "yunet: score_threshold must be in (0, 1]")
		}
		if c.YuNet.TopK < 1 {
			errors = append(errors, "yunet: top_k must be positive")
		}
	}

	return errors
}
