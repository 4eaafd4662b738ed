package camera

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Manager holds the validated capture configuration the dashboard edits.
// The verification loop owns the source; Manager only forwards accepted
// changes through OnConfigChange.
type Manager struct {
	mu     sync.RWMutex
	config Config

	// OnConfigChange hands an accepted config to whoever owns the source.
	// A non-nil error rolls the stored config back.
	OnConfigChange func(cfg Config) error
}

// NewManager creates a manager seeded with cfg.
func NewManager(cfg Config) *Manager {
	return &Manager{config: cfg}
}

// GetConfig returns the current capture configuration.
func (m *Manager) GetConfig() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// SetConfig validates cfg, stores it, and notifies OnConfigChange.
// The previous config is restored if the callback rejects cfg.
func (m *Manager) SetConfig(cfg Config) error {
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}

	m.mu.Lock()
	prev := m.config
	m.config = cfg
	callback := m.OnConfigChange
	m.mu.Unlock()

	if callback == nil {
		return nil
	}
	if err := callback(cfg); err != nil {
		m.mu.Lock()
		if m.config == cfg {
			m.config = prev
		}
		m.mu.Unlock()
		return fmt.Errorf("failed to apply config: %w", err)
	}
	return nil
}

// ApplyPreset switches to a named preset, keeping the current device.
func (m *Manager) ApplyPreset(name string) error {
	return m.UpdateConfig(map[string]any{"preset": name})
}

// UpdateConfig patches the current configuration from a decoded JSON body.
// "preset" is applied first so explicit fields can override it.
// Unknown keys, "device", and values of the wrong type are ignored.
func (m *Manager) UpdateConfig(params map[string]any) error {
	cfg := m.GetConfig()

	if name, ok := params["preset"].(string); ok {
		preset := GetPreset(name)
		if preset == nil {
			return fmt.Errorf("unknown preset: %s", name)
		}
		device := cfg.Device
		cfg = *preset
		cfg.Device = device
	}

	for key, value := range params {
		switch key {
		case "width":
			setInt(&cfg.Width, value)
		case "height":
			setInt(&cfg.Height, value)
		case "framerate":
			setInt(&cfg.Framerate, value)
		case "buffer_size":
			setInt(&cfg.BufferSize, value)
		case "brightness":
			setFloat(&cfg.Brightness, value)
		case "contrast":
			setFloat(&cfg.Contrast, value)
		}
	}

	return m.SetConfig(cfg)
}

func setInt(dst *int, v any) {
	if f, ok := number(v); ok {
		*dst = int(f)
	}
}

func setFloat(dst *float64, v any) {
	if f, ok := number(v); ok {
		*dst = f
	}
}

// number accepts the numeric shapes encoding/json and YAML decoders produce.
func number(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	}
	return 0, false
}
