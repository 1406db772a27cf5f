package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header    lipgloss.Style
	subtitle  lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	panel     lipgloss.Style
	canvas    lipgloss.Style
	graph     lipgloss.Style
	help      lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	recording lipgloss.Style
}

func newStyles(t Theme) styles {
	axis := lipgloss.Color(t.Axis.Hex())
	return styles{
		header:    fg(t.Title).Bold(true),
		subtitle:  fg(t.Text).Italic(true).MarginBottom(1),
		label:     fg(t.Axis).Width(11),
		value:     fg(t.Text),
		panel:     lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(axis).Padding(1, 2).Width(40),
		canvas:    lipgloss.NewStyle().Padding(1, 2),
		graph:     fg(t.Chart).Padding(1, 0),
		help:      fg(t.Axis).Italic(true).MarginTop(1),
		running:   fg(t.Settled).Bold(true),
		paused:    fg(t.Midway).Bold(true),
		recording: fg(t.Recording).Bold(true).Blink(true),
	}
}

// ProgressBar renders a bar filled to percent, coloured by how far along it is.
func ProgressBar(percent float64, width int, t Theme) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case percent > 0.8:
		return fg(t.Settled).Render(bar)
	case percent > 0.4:
		return fg(t.Midway).Render(bar)
	}
	return fg(t.Early).Render(bar)
}

// Separator is a muted rule with a diamond in the middle.
func Separator(width int, t Theme) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return fg(t.Axis).Render(left + " ◆ " + right)
}
