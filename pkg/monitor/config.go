package monitor

import (
	"time"

	"github.com/teslashibe/facewatch/pkg/alert"
	"github.com/teslashibe/facewatch/pkg/presence"
)

// DefaultRetryDelay is the pause after a transient failure.
const DefaultRetryDelay = 100 * time.Millisecond

// Config holds loop parameters.
type Config struct {
	RetryDelay time.Duration   `yaml:"retry_delay"`
	Presence   presence.Config `yaml:"presence"`
	Cooldown   time.Duration   `yaml:"-"`
	Policy     alert.Policy    `yaml:"-"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	a := alert.DefaultConfig()
	return Config{
		RetryDelay: DefaultRetryDelay,
		Presence:   presence.DefaultConfig(),
		Cooldown:   a.Cooldown,
		Policy:     a.Policy,
	}
}

// Validate checks if the config values are within valid ranges.
func (c *Config) Validate() []string {
	var errors []string
	if c.RetryDelay < 0 {
		errors = append(errors, "retry_delay must not be negative")
	}
	errors = append(errors, c.Presence.Validate()...)
	return errors
}
