package presence

// Config holds debouncer parameters
type Config struct {
	Window  int `yaml:"window"`   // Frames in the trailing window
	MinHits int `yaml:"min_hits"` // Frames with a face needed to confirm presence
}

// DefaultConfig returns 2-of-5: biased toward presence so a few missed
// detections do not read as the face leaving.
func DefaultConfig() Config {
	return Config{
		Window:  5,
		MinHits: 2,
	}
}

// Validate checks if the config values are within valid ranges.
func (c *Config) Validate() []string {
	var errors []string
	if c.Window < 1 {
		errors = append(errors, "window must be at least 1")
	}
	if c.MinHits < 1 || c.MinHits > c.Window {
		errors = append(errors, "min_hits must be between 1 and window")
	}
	return errors
}

// Debouncer confirms presence when at least MinHits of the last Window frames
// contained a face. The same rule governs both directions; there is no
// separate enter/exit hysteresis.
type Debouncer struct {
	history *History
	minHits int
}

// NewDebouncer creates a debouncer with an all-absent history.
func NewDebouncer(cfg Config) *Debouncer {
	return &Debouncer{
		history: NewHistory(cfg.Window),
		minHits: cfg.MinHits,
	}
}

// Update records this frame's result and returns the confirmed presence.
func (d *Debouncer) Update(frameHasFace bool) bool {
	d.history.Push(frameHasFace)
	return d.Confirmed()
}

// Confirmed returns the current decision without recording a frame.
func (d *Debouncer) Confirmed() bool {
	return d.history.CountTrue() >= d.minHits
}

// Count returns the number of recent frames with a face.
func (d *Debouncer) Count() int {
	return d.history.CountTrue()
}

// Window returns the window length.
func (d *Debouncer) Window() int {
	return d.history.Len()
}
