package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles renders terminal output. Colours are dropped automatically when
// the writer is not a terminal.
type styles struct {
	renderer *lipgloss.Renderer
	title    lipgloss.Style
	index    lipgloss.Style
	item     lipgloss.Style
	fitting  lipgloss.Style
	key      lipgloss.Style
	header   lipgloss.Style
	muted    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		renderer: r,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		index:    r.NewStyle().Foreground(lipgloss.Color("8")),
		item:     r.NewStyle(),
		fitting:  r.NewStyle().Foreground(lipgloss.Color("10")),
		key:      r.NewStyle().Bold(true),
		header:   r.NewStyle().Bold(true).Padding(0, 1),
		muted:    r.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1),
	}
}
