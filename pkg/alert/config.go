package alert

import (
	"fmt"
	"time"
)

// Policy selects how the cooldown gate is shared between alert kinds.
type Policy string

const (
	// PolicyShared uses one last-notification time for every kind, so a
	// missing-face alert also suppresses a mismatch alert and vice versa.
	PolicyShared Policy = "shared"
	// PolicyPerKind keeps a separate last-notification time per kind.
	PolicyPerKind Policy = "per-kind"
)

// Config holds alerting settings.
type Config struct {
	Cooldown      time.Duration `yaml:"cooldown" json:"cooldown"`
	Policy        Policy        `yaml:"policy" json:"policy"`
	LogDir        string        `yaml:"log_dir" json:"logDir"`
	NotifyTimeout time.Duration `yaml:"notify_timeout" json:"notifyTimeout"`
	// Desktop enables OS notifications. When false alerts are only logged.
	Desktop bool `yaml:"desktop" json:"desktop"`
}

// DefaultConfig returns the standard alert settings.
func DefaultConfig() Config {
	return Config{
		Cooldown:      3 * time.Second,
		Policy:        PolicyShared,
		LogDir:        "logs",
		NotifyTimeout: DefaultNotifyTimeout,
		Desktop:       true,
	}
}

// Validate checks if the config values are within valid ranges.
func (c *Config) Validate() []string {
	var errors []string
	if c.Cooldown < 0 {
		errors = append(errors, "cooldown must not be negative")
	}
	switch c.Policy {
	case PolicyShared, PolicyPerKind:
	default:
		errors = append(errors, fmt.Sprintf("unknown cooldown policy %q", c.Policy))
	}
	if c.LogDir == "" {
		errors = append(errors, "log_dir must be set")
	}
	if c.NotifyTimeout <= 0 {
		errors = append(errors, "notify_timeout must be positive")
	}
	return errors
}
