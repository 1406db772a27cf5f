package config

import "sort"

// Presets modify the defaults in place.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"long-horizon": func(c *Config) {
		c.Horizon = 30
		c.Intervals = 10
		c.Exact.Samples = 600
		c.Iterations = 4
		c.Style.Iterations = []string{"YELLOW", "GREEN", "PURPLE", "ORANGE"}
	},
	"many-slices": func(c *Config) {
		c.Intervals = 10
		c.FineSteps = 20
		c.Coarse.Samples = 10
	},
	"slow-converge": func(c *Config) {
		c.Iterations = 6
		c.Coarse.Method = "euler"
		c.Style.Iterations = []string{"YELLOW", "GREEN", "PURPLE", "TEAL", "ORANGE", "PINK"}
	},
	"large-swing": func(c *Config) {
		c.Initial = InitialConfig{Position: 2.5, Velocity: 0}
		c.Render.YRange = [2]float64{-3, 3}
	},
	"textbook": func(c *Config) {
		c.Mode = "parareal"
		c.Iterations = 5
		c.Coarse.Method = "euler"
		c.Coarse.Substeps = 2
		c.Style.Iterations = []string{"YELLOW", "GREEN", "PURPLE", "TEAL", "ORANGE"}
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	cfg.palette, _ = ResolvePalette(cfg.Style)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
