package terminal

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	banner    lipgloss.Style
	meta      lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	system    lipgloss.Style
	hint      lipgloss.Style
	err       lipgloss.Style
}

// newStyles binds the palette to out so colour is dropped when out is not a terminal.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		banner: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1),
		meta: r.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true),
		user: r.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),
		assistant: r.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true),
		system: r.NewStyle().
			Foreground(lipgloss.Color("240")),
		hint: r.NewStyle().
			Foreground(lipgloss.Color("240")),
		err: r.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}
}
