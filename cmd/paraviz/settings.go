package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/paraviz/internal/config"
)

const envPrefix = "PARAVIZ"

// Shared flags, bound on the root command.
var (
	configFile string
	preset     string
	mode       string
	intervals  int
	iterations int
	horizon    float64
	position   float64
	velocity   float64
	fps        int
	workers    int
	theme      string
	logLevel   string
)

func addSharedFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a preset ("+strings.Join(config.ListPresets(), ", ")+")")
	f.StringVar(&mode, "mode", "blend", "correction mode (blend, parareal)")
	f.IntVar(&intervals, "intervals", config.DefaultIntervals, "number of time intervals")
	f.IntVar(&iterations, "iterations", config.DefaultIterations, "number of correction iterations")
	f.Float64Var(&horizon, "time", config.DefaultHorizon, "time horizon")
	f.Float64Var(&position, "position", config.DefaultPosition, "initial position")
	f.Float64Var(&velocity, "velocity", config.DefaultVelocity, "initial velocity")
	f.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	f.IntVar(&workers, "workers", 0, "parallel fine solves (0 = one per interval)")
	f.StringVar(&theme, "theme", "cyberpunk", "terminal theme")
	f.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// newEnv binds PARAVIZ_* variables to the shared flag names.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range []string{"config", "preset", "mode", "intervals", "iterations", "time", "position", "velocity", "fps", "workers", "theme", "log-level"} {
		_ = v.BindEnv(key)
	}
	return v
}

// resolveConfig layers defaults, preset, config file, environment and
// explicitly set flags, in increasing priority, and validates the result.
func resolveConfig(cmd *cobra.Command, env *viper.Viper) (*config.Config, error) {
	flags := cmd.Flags()
	str := func(name, flag string) string {
		if flags.Changed(name) || !env.IsSet(name) {
			return flag
		}
		return env.GetString(name)
	}

	base := config.DefaultConfig()
	if name := str("preset", preset); name != "" {
		base = config.GetPreset(name)
		if base == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	cfg := base
	if path := str("config", configFile); path != "" {
		loaded, err := config.LoadOver(path, base)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if env.IsSet("mode") {
		cfg.Mode = env.GetString("mode")
	}
	if env.IsSet("intervals") {
		cfg.Intervals = env.GetInt("intervals")
	}
	if env.IsSet("iterations") {
		cfg.Iterations = env.GetInt("iterations")
	}
	if env.IsSet("time") {
		cfg.Horizon = env.GetFloat64("time")
	}
	if env.IsSet("position") {
		cfg.Initial.Position = env.GetFloat64("position")
	}
	if env.IsSet("velocity") {
		cfg.Initial.Velocity = env.GetFloat64("velocity")
	}
	if env.IsSet("fps") {
		cfg.Render.FPS = env.GetInt("fps")
	}
	if env.IsSet("workers") {
		cfg.Workers = env.GetInt("workers")
	}
	if env.IsSet("theme") {
		cfg.Style.Theme = env.GetString("theme")
	}

	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("intervals") {
		cfg.Intervals = intervals
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("time") {
		cfg.Horizon = horizon
	}
	if flags.Changed("position") {
		cfg.Initial.Position = position
	}
	if flags.Changed("velocity") {
		cfg.Initial.Velocity = velocity
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = fps
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("theme") {
		cfg.Style.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes logfmt to stderr, so it never mixes with frames on stdout.
func newLogger(cmd *cobra.Command, env *viper.Viper) log.Logger {
	name := logLevel
	if !cmd.Flags().Changed("log-level") && env.IsSet("log-level") {
		name = env.GetString("log-level")
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(name, level.InfoValue())))
	return log.With(logger, "ts", log.TimestampFormat(time.Now, time.RFC3339))
}
