package camera

// Preset names for common configurations
const (
	PresetDefault  = "default"
	PresetLowLight = "lowlight"
	PresetNeutral  = "neutral"
	PresetHD       = "hd"
)

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetDefault:  DefaultConfig(),
		PresetLowLight: LowLightConfig(),
		PresetNeutral:  NeutralConfig(),
		PresetHD:       HDConfig(),
	}
}

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{
		PresetDefault,
		PresetLowLight,
		PresetNeutral,
		PresetHD,
	}
}

// GetPreset returns a preset config by name, or nil if not found.
func GetPreset(name string) *Config {
	if cfg, ok := Presets()[name]; ok {
		return &cfg
	}
	return nil
}

// LowLightConfig pushes the source bias further for dim rooms.
// The ensemble's CLAHE pass still does most of the work.
func LowLightConfig() Config {
	cfg := DefaultConfig()
	cfg.Brightness = 190
	cfg.Contrast = 170
	cfg.Framerate = 15 // longer exposure per frame
	return cfg
}

// NeutralConfig leaves brightness and contrast at the driver defaults.
func NeutralConfig() Config {
	cfg := DefaultConfig()
	cfg.Brightness = 0
	cfg.Contrast = 0
	return cfg
}

// HDConfig returns 1280x720. Slower detection, better small-face recall.
func HDConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Height = 720
	return cfg
}
