package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrUnknownColor = errors.New("unknown color")

type RGB struct {
	R, G, B uint8
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Scale darkens the colour toward black; f is clamped to [0, 1].
func (c RGB) Scale(f float64) RGB {
	f = max(0, min(1, f))
	return RGB{uint8(float64(c.R) * f), uint8(float64(c.G) * f), uint8(float64(c.B) * f)}
}

// NamedColors is the fixed colour table style names resolve against.
var NamedColors = map[string]RGB{
	"GREY":   {0x88, 0x88, 0x88},
	"BLUE":   {0x58, 0xC4, 0xDD},
	"RED":    {0xFC, 0x62, 0x55},
	"YELLOW": {0xFF, 0xFF, 0x00},
	"GREEN":  {0x83, 0xC1, 0x67},
	"PURPLE": {0x9A, 0x72, 0xAC},
	"TEAL":   {0x5C, 0xD0, 0xB3},
	"ORANGE": {0xFF, 0x86, 0x2F},
	"PINK":   {0xD1, 0x47, 0xBD},
	"WHITE":  {0xFF, 0xFF, 0xFF},
}

// ParseColor accepts a name from NamedColors (any case, GRAY is GREY) or
// #rrggbb.
func ParseColor(s string) (RGB, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "GRAY" {
		name = "GREY"
	}
	if c, ok := NamedColors[name]; ok {
		return c, nil
	}
	if len(name) == 7 && name[0] == '#' {
		if c, err := colorful.Hex(name); err == nil {
			r, g, b := c.RGB255()
			return RGB{r, g, b}, nil
		}
	}
	return RGB{}, fmt.Errorf("%w %q", ErrUnknownColor, s)
}

// Palette maps every stage to its colour. It is built once when the config
// is validated.
type Palette struct {
	Exact      RGB
	Coarse     RGB
	Fine       RGB
	Divider    RGB
	Iterations []RGB
}

// Iteration returns the colour of iteration k (1-based). Iterations beyond
// the configured list use the first iteration colour.
func (p Palette) Iteration(k int) RGB {
	if len(p.Iterations) == 0 {
		return NamedColors["YELLOW"]
	}
	if k < 1 || k > len(p.Iterations) {
		return p.Iterations[0]
	}
	return p.Iterations[k-1]
}

func ResolvePalette(s StyleConfig) (Palette, error) {
	var p Palette
	var err error
	fields := []struct {
		name string
		val  string
		dst  *RGB
	}{
		{"exact", s.Exact, &p.Exact},
		{"coarse", s.Coarse, &p.Coarse},
		{"fine", s.Fine, &p.Fine},
		{"divider", s.Divider, &p.Divider},
	}
	for _, f := range fields {
		if *f.dst, err = ParseColor(f.val); err != nil {
			return Palette{}, fmt.Errorf("style.%s: %w", f.name, err)
		}
	}

	if len(s.Iterations) == 0 {
		return Palette{}, fmt.Errorf("style.iterations: at least one colour required")
	}
	p.Iterations = make([]RGB, len(s.Iterations))
	for i, name := range s.Iterations {
		if p.Iterations[i], err = ParseColor(name); err != nil {
			return Palette{}, fmt.Errorf("style.iterations[%d]: %w", i, err)
		}
	}
	return p, nil
}
