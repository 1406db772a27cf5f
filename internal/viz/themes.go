package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/paraviz/internal/config"
)

// Theme colours the player chrome: side panel, axes, bars and the GIF
// background. Curve and dot colours come from the config palette.
type Theme struct {
	Name string

	Title      config.RGB
	Chart      config.RGB
	Axis       config.RGB
	Text       config.RGB
	Background config.RGB

	// Progress bar colours, from early to nearly done.
	Early, Midway, Settled config.RGB

	Recording config.RGB
}

func hex(s string) config.RGB {
	c, err := config.ParseColor(s)
	if err != nil {
		return config.NamedColors["WHITE"]
	}
	return c
}

// palettes is keyed by the names in config.Themes.
var palettes = map[string]Theme{
	"cyberpunk": {
		Title:      hex("#00ffff"),
		Chart:      hex("#ff00ff"),
		Axis:       hex("#666666"),
		Text:       hex("#ffffff"),
		Background: hex("#0a0a0a"),
		Early:      hex("#ffff00"),
		Midway:     hex("#ff8800"),
		Settled:    hex("#00ff00"),
		Recording:  hex("#ff0000"),
	},
	"retro": {
		Title:      hex("#00cc00"),
		Chart:      hex("#00ff00"),
		Axis:       hex("#005500"),
		Text:       hex("#00ff00"),
		Background: hex("#001100"),
		Early:      hex("#88ff88"),
		Midway:     hex("#ffff00"),
		Settled:    hex("#88ff88"),
		Recording:  hex("#ff0000"),
	},
	"minimal": {
		Title:      hex("#cccccc"),
		Chart:      hex("#ffffff"),
		Axis:       hex("#888888"),
		Text:       hex("#ffffff"),
		Background: hex("#000000"),
		Early:      hex("#0088ff"),
		Midway:     hex("#ffaa00"),
		Settled:    hex("#00ff00"),
		Recording:  hex("#ff0000"),
	},
	// ocean and sunset echo the default stage colours: blue for the coarse
	// pass, red for the fine pass.
	"ocean": {
		Title:      config.NamedColors["BLUE"],
		Chart:      config.NamedColors["TEAL"],
		Axis:       hex("#4488aa"),
		Text:       hex("#e0f0ff"),
		Background: hex("#001a33"),
		Early:      config.NamedColors["BLUE"],
		Midway:     config.NamedColors["YELLOW"],
		Settled:    config.NamedColors["GREEN"],
		Recording:  config.NamedColors["RED"],
	},
	"sunset": {
		Title:      config.NamedColors["RED"],
		Chart:      config.NamedColors["ORANGE"],
		Axis:       hex("#8b6b8c"),
		Text:       hex("#fff5f5"),
		Background: hex("#2d1b2e"),
		Early:      config.NamedColors["PINK"],
		Midway:     config.NamedColors["ORANGE"],
		Settled:    config.NamedColors["GREEN"],
		Recording:  config.NamedColors["RED"],
	},
}

// Themes lists the palettes in config.Themes order, so the names a config
// may use are exactly the ones the player can cycle through.
var Themes = func() []Theme {
	out := make([]Theme, 0, len(config.Themes))
	for _, name := range config.Themes {
		if t, ok := palettes[name]; ok {
			t.Name = name
			out = append(out, t)
		}
	}
	return out
}()

// GetTheme returns a theme by name, falling back to the first.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func fg(c config.RGB) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}
