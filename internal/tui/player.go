package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/san-kum/paraviz/internal/scene"
	"github.com/san-kum/paraviz/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	stageStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff00ff"))
	ruleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	subtitleStyle = lipgloss.NewStyle().Italic(true)
)

type Options struct {
	Width, Height int
	// FPS overrides the script frame rate when positive.
	FPS  int
	Loop bool
	// Plain drops colour escapes and draws the bare Braille canvas.
	Plain bool
}

// Player streams a script to a terminal as a sequence of full-screen
// redraws, paced by a token bucket at the frame rate.
type Player struct {
	out  io.Writer
	opts Options
}

func NewPlayer(out io.Writer, opts Options) *Player {
	if opts.Width <= 0 {
		opts.Width = 96
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	return &Player{out: out, opts: opts}
}

// Play draws every frame of s, then starts over if looping. It returns
// ctx.Err() when cancelled and nil when a non-looping script ends.
func (p *Player) Play(ctx context.Context, s *scene.Script) error {
	if s.Len() == 0 {
		return scene.ErrEmptyRun
	}
	fps := p.opts.FPS
	if fps <= 0 {
		fps = max(s.FPS, 1)
	}
	limiter := rate.NewLimiter(rate.Every(time.Second/time.Duration(fps)), 1)
	plot := viz.NewPlot(p.opts.Width, p.opts.Height, s.Axes)

	fmt.Fprint(p.out, hideCursor)
	defer fmt.Fprint(p.out, showCursor)

	for {
		for _, f := range s.Frames {
			if err := limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			if err := p.render(s, plot, f); err != nil {
				return err
			}
		}
		if !p.opts.Loop {
			return nil
		}
	}
}

func (p *Player) render(s *scene.Script, plot *viz.Plot, f scene.Frame) error {
	c := plot.Draw(f)

	style := func(st lipgloss.Style, text string) string {
		if p.opts.Plain {
			return text
		}
		return st.Render(text)
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(header(s, f, style) + "\n")
	rule := "  " + style(ruleStyle, strings.Repeat("-", p.opts.Width)) + "\n"
	b.WriteString(rule)

	body := c.String()
	if !p.opts.Plain {
		body = c.Render()
	}
	for _, row := range strings.SplitAfter(strings.TrimSuffix(body, "\n"), "\n") {
		b.WriteString("  " + row)
	}
	b.WriteString("\n" + rule)
	b.WriteString("  " + style(subtitleStyle, f.Subtitle) + "\n")

	_, err := io.WriteString(p.out, b.String())
	return err
}

func header(s *scene.Script, f scene.Frame, style func(lipgloss.Style, string) string) string {
	stage := f.Stage.String()
	if f.Stage == scene.StageIteration {
		stage = fmt.Sprintf("%s k=%d", stage, f.K)
	}
	return fmt.Sprintf("  %s  [%s]  t=%.2fs",
		style(titleStyle, s.Title), style(stageStyle, stage), f.Time)
}
