package repl

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorOK      = lipgloss.Color("#10B981")
	colorAccent  = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// styles is the palette of one output stream. Each stream gets its own
// renderer so color detection follows the writer, not os.Stdout. Streams
// that are not terminals stay plain: lipgloss pads multi-line blocks.
type styles struct {
	plain bool

	Banner lipgloss.Style
	Prompt lipgloss.Style
	Output lipgloss.Style
	Error  lipgloss.Style
	Mode   lipgloss.Style
}

func newStyles(w io.Writer, plain bool) styles {
	if plain || !IsTerminal(w) {
		return styles{plain: true}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		Banner: r.NewStyle().Bold(true),
		Prompt: r.NewStyle().Foreground(colorAccent),
		Output: r.NewStyle().Foreground(colorOK),
		Error:  r.NewStyle().Foreground(colorError).Bold(true),
		Mode:   r.NewStyle().Foreground(colorPrimary),
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return st.Render(text)
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
