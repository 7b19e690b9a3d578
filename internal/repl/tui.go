package repl

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	inputEchoStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	outputStyle = lipgloss.NewStyle().
			Foreground(colorOK)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	modeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(lipgloss.Color("#F9FAFB")).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)
)

// entry is one evaluated line in the transcript
type entry struct {
	input string
	mode  Mode
	eval  Evaluation
}

// evaluatedMsg carries the outcome of an analysis back to Update
type evaluatedMsg struct {
	entry entry
}

// Model is the bubbletea model of the TUI REPL
type Model struct {
	analyzer Analyzer
	ctx      context.Context
	mode     Mode

	width  int
	height int
	ready  bool
	busy   bool

	input    textinput.Model
	viewport viewport.Model

	entries []entry
}

// NewModel creates the TUI REPL model
func NewModel(ctx context.Context, a Analyzer, mode Mode) Model {
	ti := textinput.New()
	ti.Placeholder = "Zig source, :tree, :tokens, :json or q"
	ti.Prompt = Prompt
	ti.CharLimit = 0
	ti.Focus()

	return Model{
		analyzer: a,
		ctx:      ctx,
		mode:     mode,
		input:    ti,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.mode = m.mode.Next()
			return m, nil

		case "ctrl+l":
			m.entries = nil
			m.updateContent()
			return m, nil

		case "enter":
			if m.busy {
				return m, nil
			}
			line := m.input.Value()
			trimmed := strings.TrimSpace(line)
			m.input.Reset()

			switch {
			case trimmed == Quit:
				return m, tea.Quit
			case trimmed == "":
				return m, nil
			case strings.HasPrefix(trimmed, ":"):
				mode, err := ParseMode(trimmed[1:])
				if err != nil {
					m.entries = append(m.entries, entry{input: trimmed, mode: m.mode, eval: Evaluation{Errors: []string{err.Error()}}})
				} else {
					m.mode = mode
				}
				m.updateContent()
				return m, nil
			}

			m.busy = true
			return m, m.evaluate(line, m.mode)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := msg.Height - 7
		if contentHeight < 1 {
			contentHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = contentHeight
		}
		m.input.Width = msg.Width - 8
		m.updateContent()

	case evaluatedMsg:
		m.busy = false
		m.entries = append(m.entries, msg.entry)
		m.updateContent()
		m.viewport.GotoBottom()
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) evaluate(line string, mode Mode) tea.Cmd {
	return func() tea.Msg {
		return evaluatedMsg{entry: entry{
			input: line,
			mode:  mode,
			eval:  Evaluate(m.ctx, m.analyzer, line, mode),
		}}
	}
}

// Transcript renders all entries without styling
func (m Model) Transcript() string {
	return m.renderEntries(false)
}

func (m *Model) updateContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderEntries(true))
}

func (m Model) renderEntries(styled bool) string {
	paint := func(st lipgloss.Style, s string) string {
		if !styled {
			return s
		}
		return st.Render(s)
	}

	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(paint(inputEchoStyle, Prompt+e.input))
		b.WriteByte('\n')
		for _, msg := range e.eval.Errors {
			b.WriteString(paint(errorStyle, "ERROR: "+msg))
			b.WriteByte('\n')
		}
		if e.eval.Output != "" {
			b.WriteString(paint(outputStyle, e.eval.Output))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var s strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("LexZig"),
		" ",
		modeStyle.Render("mode: "+m.mode.String()),
	)
	s.WriteString(header)
	s.WriteString("\n")

	s.WriteString(m.viewport.View())
	s.WriteString("\n")

	s.WriteString(inputBoxStyle.Render(m.input.View()))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: analyze  tab: mode  ctrl+l: clear  q/esc: quit"))

	return s.String()
}

// RunTUI runs the TUI REPL until the user quits
func RunTUI(ctx context.Context, a Analyzer, mode Mode, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(NewModel(ctx, a, mode), opts...).Run()
	return err
}
