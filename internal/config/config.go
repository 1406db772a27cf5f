package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHorizon       = 10.0
	DefaultIntervals     = 5
	DefaultFineSteps     = 30
	DefaultIterations    = 3
	DefaultPosition      = 1.0
	DefaultVelocity      = 0.0
	DefaultCoarseSamples = 20
	DefaultFineSamples   = 100
	DefaultExactSamples  = 200
	DefaultRtol          = 1e-3
	DefaultAtol          = 1e-6
	DefaultDamping       = 0.1
	DefaultStiffness     = 1.0
	DefaultFPS           = 30
	DefaultWidth         = 96
	DefaultHeight        = 24
)

var (
	Modes   = []string{"blend", "parareal"}
	Methods = []string{"euler", "rk4", "rk45", "verlet"}
	Themes  = []string{"cyberpunk", "retro", "minimal", "ocean", "sunset"}
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Horizon    float64         `yaml:"horizon"`
	Intervals  int             `yaml:"intervals"`
	FineSteps  int             `yaml:"fine_steps"`
	Iterations int             `yaml:"iterations"`
	Initial    InitialConfig   `yaml:"initial"`
	Mode       string          `yaml:"mode"`
	Workers    int             `yaml:"workers,omitempty"`
	Coarse     SolverConfig    `yaml:"coarse"`
	Fine       SolverConfig    `yaml:"fine"`
	Exact      SolverConfig    `yaml:"exact"`
	Tolerance  ToleranceConfig `yaml:"tolerance"`
	Pendulum   PendulumConfig  `yaml:"pendulum"`
	Style      StyleConfig     `yaml:"style"`
	Render     RenderConfig    `yaml:"render"`

	palette Palette
}

type InitialConfig struct {
	Position float64 `yaml:"position"`
	Velocity float64 `yaml:"velocity"`
}

type SolverConfig struct {
	Method   string `yaml:"method"`
	Samples  int    `yaml:"samples"`
	Substeps int    `yaml:"substeps,omitempty"`
}

type ToleranceConfig struct {
	Rtol float64 `yaml:"rtol"`
	Atol float64 `yaml:"atol"`
}

type PendulumConfig struct {
	Damping   float64 `yaml:"damping"`
	Stiffness float64 `yaml:"stiffness"`
}

type StyleConfig struct {
	Exact      string   `yaml:"exact"`
	Coarse     string   `yaml:"coarse"`
	Fine       string   `yaml:"fine"`
	Divider    string   `yaml:"divider"`
	Iterations []string `yaml:"iterations,flow"`
	Theme      string   `yaml:"theme"`
}

type RenderConfig struct {
	FPS    int        `yaml:"fps"`
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	YRange [2]float64 `yaml:"y_range,flow"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		Horizon:    DefaultHorizon,
		Intervals:  DefaultIntervals,
		FineSteps:  DefaultFineSteps,
		Iterations: DefaultIterations,
		Initial:    InitialConfig{Position: DefaultPosition, Velocity: DefaultVelocity},
		Mode:       "blend",
		Coarse:     SolverConfig{Method: "rk4", Samples: DefaultCoarseSamples, Substeps: 1},
		Fine:       SolverConfig{Method: "rk45", Samples: DefaultFineSamples},
		Exact:      SolverConfig{Method: "rk45", Samples: DefaultExactSamples},
		Tolerance:  ToleranceConfig{Rtol: DefaultRtol, Atol: DefaultAtol},
		Pendulum:   PendulumConfig{Damping: DefaultDamping, Stiffness: DefaultStiffness},
		Style: StyleConfig{
			Exact:      "GREY",
			Coarse:     "BLUE",
			Fine:       "RED",
			Divider:    "GREY",
			Iterations: []string{"YELLOW", "GREEN", "PURPLE"},
			Theme:      "cyberpunk",
		},
		Render: RenderConfig{
			FPS:    DefaultFPS,
			Width:  DefaultWidth,
			Height: DefaultHeight,
			YRange: [2]float64{-2, 2},
		},
	}
	cfg.palette, _ = ResolvePalette(cfg.Style)
	return cfg
}

// Load reads a YAML file over the defaults and validates the result, which
// also resolves the palette.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver is Load with base in place of the defaults, so a preset can sit
// underneath the file. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	// a list in the file replaces the base list instead of merging into it
	cfg.Style.Iterations = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Style.Iterations == nil {
		cfg.Style.Iterations = slices.Clone(base.Style.Iterations)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Style.Iterations = slices.Clone(c.Style.Iterations)
	cp.palette.Iterations = slices.Clone(c.palette.Iterations)
	return &cp
}

// Validate checks every field and resolves the palette. Call it again after
// changing Style.
func (c *Config) Validate() error {
	var problems []string
	bad := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !(c.Horizon > 0) || math.IsInf(c.Horizon, 0) {
		bad("horizon must be positive, got %v", c.Horizon)
	}
	if c.Intervals < 1 {
		bad("intervals must be at least 1, got %d", c.Intervals)
	}
	if c.FineSteps < 1 {
		bad("fine_steps must be at least 1, got %d", c.FineSteps)
	}
	if c.Iterations < 1 {
		bad("iterations must be at least 1, got %d", c.Iterations)
	}
	if !finite(c.Initial.Position) || !finite(c.Initial.Velocity) {
		bad("initial state must be finite")
	}
	if !slices.Contains(Modes, c.Mode) {
		bad("unknown mode %q", c.Mode)
	}
	if c.Style.Theme != "" && !slices.Contains(Themes, c.Style.Theme) {
		bad("unknown theme %q", c.Style.Theme)
	}
	if c.Workers < 0 {
		bad("workers must not be negative, got %d", c.Workers)
	}
	for name, s := range map[string]SolverConfig{"coarse": c.Coarse, "fine": c.Fine, "exact": c.Exact} {
		if !slices.Contains(Methods, s.Method) {
			bad("%s: unknown method %q", name, s.Method)
		}
		if s.Samples < 2 {
			bad("%s: samples must be at least 2, got %d", name, s.Samples)
		}
		if s.Substeps < 0 {
			bad("%s: substeps must not be negative, got %d", name, s.Substeps)
		}
	}
	if c.Tolerance.Rtol < 0 || c.Tolerance.Atol < 0 {
		bad("tolerances must not be negative")
	}
	if c.Render.FPS < 1 {
		bad("render.fps must be at least 1, got %d", c.Render.FPS)
	}
	if c.Render.Width < 1 || c.Render.Height < 1 {
		bad("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if !(c.Render.YRange[1] > c.Render.YRange[0]) {
		bad("render.y_range must be increasing, got %v", c.Render.YRange)
	}

	p, err := ResolvePalette(c.Style)
	if err != nil {
		bad("%v", err)
	} else {
		c.palette = p
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// Palette returns the colours resolved by the last successful Validate.
func (c *Config) Palette() Palette {
	return c.palette
}

func (c *Config) InitialState() []float64 {
	return []float64{c.Initial.Position, c.Initial.Velocity}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
