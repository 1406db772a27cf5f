package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/paraviz/internal/scene"
)

const DefaultGIFPath = "paraviz.gif"

type TickMsg time.Time

type PlayerOptions struct {
	Width, Height int
	Theme         string
	GIFPath       string
	Loop          bool
}

// Player is the Bubble Tea model that plays a script frame by frame.
type Player struct {
	script    *scene.Script
	errs      []float64
	plot      *Plot
	theme     Theme
	styles    styles
	frame     int
	running   bool
	loop      bool
	showHelp  bool
	recorder  *Recorder
	recording bool
	gifPath   string
	notice    string
}

// NewPlayer builds a player for script. errs is the convergence series, one
// entry for the coarse sweep and one per iteration.
func NewPlayer(script *scene.Script, errs []float64, opts PlayerOptions) Player {
	if opts.Width <= 0 {
		opts.Width = 96
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	if opts.GIFPath == "" {
		opts.GIFPath = DefaultGIFPath
	}
	theme := GetTheme(opts.Theme)
	plot := NewPlot(opts.Width, opts.Height, script.Axes)
	plot.AxisColor = theme.Axis
	plot.TextColor = theme.Text

	return Player{
		script:   script,
		errs:     errs,
		plot:     plot,
		theme:    theme,
		styles:   newStyles(theme),
		running:  true,
		loop:     opts.Loop,
		recorder: NewRecorder(script.FPS, theme.Background),
		gifPath:  opts.GIFPath,
	}
}

func (m Player) tick() tea.Cmd {
	fps := max(m.script.FPS, 1)
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Player) Init() tea.Cmd {
	return m.tick()
}

func (m Player) Frame() int { return m.frame }

func (m Player) Running() bool { return m.running }

func (m Player) Recording() bool { return m.recording }

func (m Player) Theme() Theme { return m.theme }

func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.frame = 0
			m.running = true
		case "[":
			m.prevStage()
		case "]":
			m.nextStage()
		case "left", "h":
			m.running = false
			m.frame = max(0, m.frame-1)
		case "right", "l":
			m.running = false
			m.frame = min(m.script.Len()-1, m.frame+1)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.recorder.Reset()
				m.notice = "recording"
			}
		case "t":
			m.setTheme(NextTheme(m.theme.Name))
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		if m.recording && m.running {
			m.recorder.Capture(m.plot.Draw(m.current()))
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Player) advance() {
	if m.frame < m.script.Len()-1 {
		m.frame++
		return
	}
	if m.loop {
		m.frame = 0
		return
	}
	m.running = false
}

func (m *Player) prevStage() {
	i := m.script.StageOf(m.frame)
	st := m.script.Stages[i]
	if m.frame > st.First || i == 0 {
		m.frame = st.First
		return
	}
	m.frame = m.script.Stages[i-1].First
}

func (m *Player) nextStage() {
	i := m.script.StageOf(m.frame)
	if i+1 < len(m.script.Stages) {
		m.frame = m.script.Stages[i+1].First
		return
	}
	m.frame = m.script.Len() - 1
}

func (m *Player) setTheme(t Theme) {
	m.theme = t
	m.styles = newStyles(t)
	m.plot.AxisColor = t.Axis
	m.plot.TextColor = t.Text
	m.recorder.Background = t.Background
}

func (m *Player) stopRecording() {
	m.recording = false
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.notice = "gif: " + err.Error()
	} else {
		m.notice = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.gifPath)
	}
	m.recorder.Reset()
}

func (m Player) current() scene.Frame {
	if m.script.Len() == 0 {
		return scene.Frame{}
	}
	return m.script.Frames[m.frame]
}

func (m Player) View() string {
	f := m.current()
	canvasView := m.styles.canvas.Render(m.plot.Draw(f).Render())

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.script.Title)) + "\n")
	s.WriteString(m.styles.subtitle.Render(f.Subtitle) + "\n")

	switch {
	case m.recording:
		s.WriteString(m.styles.recording.Render("● REC") + "\n\n")
	case m.running:
		s.WriteString(m.styles.running.Render("PLAYING") + "\n\n")
	default:
		s.WriteString(m.styles.paused.Render("PAUSED") + "\n\n")
	}

	idx := m.script.StageOf(m.frame)
	var st scene.StageInfo
	if len(m.script.Stages) > 0 {
		st = m.script.Stages[idx]
	}
	row := func(label, value string) {
		s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}
	row("Stage", fmt.Sprintf("%d/%d %s", idx+1, len(m.script.Stages), st.Kind))
	if st.Kind == scene.StageIteration {
		row("Iteration", fmt.Sprintf("k=%d", st.K))
	}
	row("Frame", fmt.Sprintf("%d/%d", m.frame+1, m.script.Len()))
	row("Time", fmt.Sprintf("%.1fs / %.1fs", f.Time, m.script.Duration().Seconds()))
	if st.Count > 0 {
		s.WriteString(ProgressBar(float64(m.frame-st.First+1)/float64(st.Count), 20, m.theme) + "\n")
	}
	s.WriteString(ProgressBar(float64(m.frame+1)/float64(max(1, m.script.Len())), 20, m.theme) + "\n")

	if series := m.visibleErrors(st); len(series) > 1 {
		chart := asciigraph.Plot(series,
			asciigraph.Height(5),
			asciigraph.Width(28),
			asciigraph.Precision(3),
			asciigraph.Caption("max |Δy| at boundaries"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
		row("Error", fmt.Sprintf("%.2e", series[len(series)-1]))
	}

	if m.notice != "" {
		s.WriteString("\n" + m.styles.value.Render(m.notice) + "\n")
	}
	s.WriteString("\n" + Separator(32, m.theme) + "\n")
	s.WriteString(m.styles.help.Render("SP:Pause R:Restart Q:Quit\nT:Theme  G:Record  ?:Help\n[ ]:Stage ←→:Frame"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

// visibleErrors returns the part of the convergence series already shown
// on screen: nothing before the iterations, up to k during iteration k.
func (m Player) visibleErrors(st scene.StageInfo) []float64 {
	switch st.Kind {
	case scene.StageIteration:
		return m.errs[:min(st.K+1, len(m.errs))]
	case scene.StageConvergence:
		return m.errs
	}
	return nil
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  R        - Restart from the top     ║
║  Q        - Quit                     ║
║  [        - Previous stage           ║
║  ]        - Next stage               ║
║  ←/→      - Step one frame           ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Play runs the player full screen until the user quits.
func Play(script *scene.Script, errs []float64, opts PlayerOptions) error {
	_, err := tea.NewProgram(NewPlayer(script, errs, opts), tea.WithAltScreen()).Run()
	return err
}
