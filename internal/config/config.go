// Package config loads facewatch settings from a YAML file and FACEWATCH_*
// environment variables, on top of the package defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/facewatch/pkg/alert"
	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/detection"
	"github.com/teslashibe/facewatch/pkg/identity"
	"github.com/teslashibe/facewatch/pkg/monitor"
	"github.com/teslashibe/facewatch/pkg/presence"
	"github.com/teslashibe/facewatch/pkg/web"
)

// DefaultFile is read when no config path is given. It is optional.
const DefaultFile = "facewatch.yaml"

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "FACEWATCH_"

// Config is the complete facewatch configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// Headless disables the display window; commands come from stdin.
	Headless bool `yaml:"headless"`

	Camera    camera.Config       `yaml:"camera"`
	Replay    camera.ReplayConfig `yaml:"replay"`
	Detection detection.Config    `yaml:"detection"`
	Presence  presence.Config     `yaml:"presence"`
	Identity  identity.Config     `yaml:"identity"`
	Alert     alert.Config        `yaml:"alert"`

	RetryDelay time.Duration `yaml:"retry_delay"`

	Dashboard DashboardConfig `yaml:"dashboard"`
}

// DashboardConfig enables and configures the web dashboard.
type DashboardConfig struct {
	Enabled    bool `yaml:"enabled"`
	web.Config `yaml:",inline"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		LogLevel:   "info",
		Camera:     camera.DefaultConfig(),
		Detection:  detection.DefaultConfig(),
		Presence:   presence.DefaultConfig(),
		Identity:   identity.DefaultConfig(),
		Alert:      alert.DefaultConfig(),
		RetryDelay: monitor.DefaultRetryDelay,
		Dashboard:  DashboardConfig{Config: web.DefaultConfig()},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path reads DefaultFile if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from FACEWATCH_* variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	e := envReader{lookup: lookup}

	e.str("LOG_LEVEL", &c.LogLevel)
	e.boolean("HEADLESS", &c.Headless)
	e.str("CAMERA", &c.Camera.Device)
	e.str("REPLAY_DIR", &c.Replay.Dir)
	e.str("CASCADE_DIR", &c.Detection.CascadeDir)
	e.str("YUNET_MODEL", &c.Detection.YuNet.ModelPath)
	e.float("THRESHOLD", &c.Identity.Threshold)
	e.duration("COOLDOWN", &c.Alert.Cooldown)
	if v, ok := e.get("POLICY"); ok {
		c.Alert.Policy = alert.Policy(v)
	}
	e.str("LOG_DIR", &c.Alert.LogDir)
	e.boolean("DESKTOP_NOTIFY", &c.Alert.Desktop)
	e.boolean("DASHBOARD", &c.Dashboard.Enabled)
	e.str("DASHBOARD_ADDR", &c.Dashboard.Addr)

	return errors.Join(e.errs...)
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string
	add := func(section string, errs []string) {
		for _, e := range errs {
			problems = append(problems, section+": "+e)
		}
	}

	if c.Replay.Dir == "" {
		add("camera", c.Camera.Validate())
	}
	add("detection", c.Detection.Validate())
	add("presence", c.Presence.Validate())
	add("identity", c.Identity.Validate())
	add("alert", c.Alert.Validate())
	if c.RetryDelay < 0 {
		problems = append(problems, "retry_delay must not be negative")
	}
	if c.Dashboard.Enabled && c.Dashboard.Addr == "" {
		problems = append(problems, "dashboard: addr must be set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid settings: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Monitor returns the loop configuration.
func (c *Config) Monitor() monitor.Config {
	return monitor.Config{
		RetryDelay: c.RetryDelay,
		Presence:   c.Presence,
		Cooldown:   c.Alert.Cooldown,
		Policy:     c.Alert.Policy,
	}
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) get(name string) (string, bool) {
	v, ok := e.lookup(EnvPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e *envReader) fail(name, v string, err error) {
	e.errs = append(e.errs, fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, name, v, err))
}

func (e *envReader) str(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) boolean(name string, dst *bool) {
	if v, ok := e.get(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) float(name string, dst *float64) {
	if v, ok := e.get(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) duration(name string, dst *time.Duration) {
	if v, ok := e.get(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = d
	}
}
