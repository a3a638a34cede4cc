package config

import "sort"

// Presets mirror the demo programs: a plain bouncer, the multiplying
// balls window and the recorded video variant.
var Presets = map[string]func() *Config{
	"single": func() *Config {
		cfg := DefaultConfig()
		cfg.Simulation.Width = 1920
		cfg.Simulation.Height = 1080
		cfg.Simulation.MaxBalls = 1
		cfg.Window.Title = "Bouncing Ball"
		return cfg
	},
	"multiply": func() *Config {
		cfg := DefaultConfig()
		cfg.Simulation.MaxBalls = 1750
		return cfg
	},
	"video": func() *Config {
		cfg := DefaultConfig()
		cfg.Capture.Enabled = true
		cfg.Window.Title = "Ball Video"
		return cfg
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
