package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/paraviz/internal/analysis"
	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/experiment"
	"github.com/san-kum/paraviz/internal/export"
	"github.com/san-kum/paraviz/internal/parareal"
	"github.com/san-kum/paraviz/internal/scene"
	"github.com/san-kum/paraviz/internal/tui"
	"github.com/san-kum/paraviz/internal/viz"
)

// Command-specific flags.
var (
	loop      bool
	plain     bool
	format    string
	outDir    string
	every     int
	watch     bool
	imgWidth  int
	imgHeight int
	force     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "paraviz",
		Short:         "parareal algorithm animation for a damped pendulum",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAnimate,
	}
	addSharedFlags(rootCmd)

	animateCmd := &cobra.Command{
		Use:   "animate",
		Short: "play the animation interactively",
		RunE:  runAnimate,
	}
	animateCmd.Flags().BoolVar(&loop, "loop", false, "restart when the animation ends")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "stream the animation to the terminal without interaction",
		RunE:  runPlay,
	}
	playCmd.Flags().BoolVar(&loop, "loop", false, "repeat until interrupted")
	playCmd.Flags().BoolVar(&plain, "plain", false, "no colour")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "export frames as png, svg or an animated gif",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVar(&format, "format", "png", "output format (png, gif, svg)")
	renderCmd.Flags().StringVar(&outDir, "out", "frames", "output directory")
	renderCmd.Flags().IntVar(&every, "every", 1, "export every n-th frame")
	renderCmd.Flags().IntVar(&imgWidth, "width", export.DefaultWidth, "image width in pixels")
	renderCmd.Flags().IntVar(&imgHeight, "height", export.DefaultHeight, "image height in pixels")
	renderCmd.Flags().BoolVar(&watch, "watch", false, "re-render whenever the config file changes")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "print boundary values per iteration",
		RunE:  runSolve,
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "convergence and energy report",
		RunE:  runReport,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(animateCmd, playCmd, renderCmd, solveCmd, reportCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type session struct {
	cfg    *config.Config
	exp    *experiment.Experiment
	run    *parareal.Run
	logger log.Logger
}

func solve(ctx context.Context, cmd *cobra.Command) (*session, error) {
	env := newEnv()
	logger := newLogger(cmd, env)
	cfg, err := resolveConfig(cmd, env)
	if err != nil {
		return nil, err
	}
	return solveConfig(ctx, cfg, logger)
}

func solveConfig(ctx context.Context, cfg *config.Config, logger log.Logger) (*session, error) {
	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	run, err := exp.Run(ctx)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, exp: exp, run: run, logger: logger}, nil
}

func (s *session) script() (*scene.Script, error) {
	return scene.Build(s.run, s.cfg.Palette(), scene.OptionsFrom(s.cfg))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runAnimate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := solve(ctx, cmd)
	if err != nil {
		return err
	}
	sc, err := s.script()
	if err != nil {
		return err
	}
	return viz.Play(sc, parareal.Errors(s.run), viz.PlayerOptions{
		Width:  s.cfg.Render.Width,
		Height: s.cfg.Render.Height,
		Theme:  s.cfg.Style.Theme,
		Loop:   loop,
	})
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := solve(ctx, cmd)
	if err != nil {
		return err
	}
	sc, err := s.script()
	if err != nil {
		return err
	}
	p := tui.NewPlayer(os.Stdout, tui.Options{
		Width:  s.cfg.Render.Width,
		Height: s.cfg.Render.Height,
		Loop:   loop,
		Plain:  plain,
	})
	if err := p.Play(ctx, sc); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	env := newEnv()
	logger := newLogger(cmd, env)

	render := func() error {
		cfg, err := resolveConfig(cmd, env)
		if err != nil {
			return err
		}
		s, err := solveConfig(ctx, cfg, logger)
		if err != nil {
			return err
		}
		sc, err := s.script()
		if err != nil {
			return err
		}
		ex := export.New(export.Options{
			Format: f,
			Dir:    outDir,
			Every:  every,
			Width:  imgWidth,
			Height: imgHeight,
		}, logger)
		paths, err := ex.Export(ctx, sc)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d file(s) to %s\n", len(paths), outDir)
		return nil
	}

	if !watch {
		return render()
	}
	path := configFile
	if !cmd.Flags().Changed("config") && env.IsSet("config") {
		path = env.GetString("config")
	}
	if path == "" {
		return errors.New("--watch needs --config")
	}
	if err := render(); err != nil {
		level.Error(logger).Log("msg", "render failed", "err", err)
	}
	return watchFile(ctx, path, logger, render)
}

func runSolve(cmd *cobra.Command, args []string) error {
	s, err := solve(context.Background(), cmd)
	if err != nil {
		return err
	}
	run := s.run
	table := run.ReferenceTable()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := []string{"I", "T", "COARSE"}
	for _, it := range run.Iterations {
		header = append(header, fmt.Sprintf("K=%d", it.K))
	}
	header = append(header, "REFERENCE")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	part := run.Partition
	for i := 0; i <= part.Count(); i++ {
		t := part.Time(i)
		row := []string{fmt.Sprint(i), fmt.Sprintf("%.3f", t), fmt.Sprintf("%.6f", run.Coarse[i][0])}
		for _, it := range run.Iterations {
			row = append(row, fmt.Sprintf("%.6f", it.Boundary[i][0]))
		}
		row = append(row, fmt.Sprintf("%.6f", table.Component(0, t)))
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(run.Reference.Component(0),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("reference position"),
	))
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := solve(context.Background(), cmd)
	if err != nil {
		return err
	}
	rep, err := analysis.NewReport(s.run, s.exp.System())
	if err != nil {
		return err
	}
	return rep.Write(os.Stdout, 60, 10)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tTIME\tINTERVALS\tITERATIONS\tCOARSE\tINITIAL")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%d\t%s\t(%.2f, %.2f)\n",
			name, p.Mode, p.Horizon, p.Intervals, p.Iterations, p.Coarse.Method,
			p.Initial.Position, p.Initial.Velocity)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	}
	cfg, err := resolveConfig(cmd, newEnv())
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
