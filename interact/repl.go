// Package interact is the interactive prompt: a line editor with tab
// completion cycling over the engine's candidate sessions.
package interact

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mattn/go-isatty"

	"github.com/coveshell/cove/completion"
	"github.com/coveshell/cove/shellenv"
)

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDDDDD"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))
)

// maxMenuRows bounds the visible candidate menu.
const maxMenuRows = 10

// Model is the REPL's bubbletea model.
type Model struct {
	input   textinput.Model
	opts    *completion.Options
	history *shellenv.History

	// cycle state; nil when no completion is active. base is the input
	// the session was computed against, so replacements splice into it
	// rather than into an already-completed line.
	session *completion.Session
	base    string

	// filter narrows the menu without restarting the session.
	filter string

	lines []string
	err   error
	quit  bool
}

// NewModel creates the REPL model. history may be shared with the engine's
// options so completed lines feed history completion.
func NewModel(opts *completion.Options, history *shellenv.History) Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("cove> ")
	ti.Focus()

	if opts == nil {
		opts = &completion.Options{}
	}
	if history == nil {
		history = shellenv.NewHistory(0)
	}

	return Model{input: ti, opts: opts, history: history}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quit = true

		return m, tea.Quit

	case tea.KeyTab:
		return m.cycle(true), nil

	case tea.KeyShiftTab:
		return m.cycle(false), nil

	case tea.KeyEsc:
		return m.dropSession(), nil

	case tea.KeyEnter:
		return m.accept(), nil

	default:
		// Any other key resumes editing and invalidates the session.
		m = m.dropSession()

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}
}

// cycle starts a session on first Tab and advances it afterwards,
// wrapping in both directions.
func (m Model) cycle(forward bool) Model {
	if m.session == nil {
		line := m.input.Value()
		cursor := byteOffset(line, m.input.Position())

		session, err := completion.Complete(context.Background(), line, cursor, m.opts)
		if err != nil {
			m.err = err

			return m
		}

		m.session = session
		m.base = line
		m.filter = ""
		m.err = nil
	}

	cand, ok := m.session.Next(forward)
	if !ok {
		return m
	}

	m = m.apply(cand)

	return m
}

// apply splices the candidate's replacement into the session's base line.
func (m Model) apply(cand completion.Candidate) Model {
	start, length := m.session.ReplacementStart, m.session.ReplacementLength
	if start < 0 {
		start, length = len(m.base), 0
	}

	line := m.base[:start] + cand.Replacement + m.base[start+length:]
	m.input.SetValue(line)
	m.input.SetCursor(len([]rune(m.base[:start] + cand.Replacement)))

	return m
}

// accept submits the current line.
func (m Model) accept() Model {
	m = m.dropSession()

	line := strings.TrimSpace(m.input.Value())
	if line != "" {
		m.history.Add(line)
		m.lines = append(m.lines, promptStyle.Render("cove> ")+line)
	}

	m.input.SetValue("")

	return m
}

func (m Model) dropSession() Model {
	m.session = nil
	m.base = ""
	m.filter = ""

	return m
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString(m.input.View())
	b.WriteByte('\n')

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteByte('\n')
	}

	if m.session != nil {
		b.WriteString(m.menu())
	}

	return b.String()
}

// menu renders the candidate list, the selected entry highlighted and the
// rest narrowed by the fuzzy filter.
func (m Model) menu() string {
	candidates := m.visibleCandidates()
	if len(candidates) == 0 {
		return dimStyle.Render("(no completions)") + "\n"
	}

	var b strings.Builder

	shown := 0
	for _, c := range candidates {
		if shown >= maxMenuRows {
			b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", len(candidates)-shown)))
			b.WriteByte('\n')

			break
		}

		style := normalStyle
		if sel, ok := m.session.Current(); ok && sel == c {
			style = selectedStyle
		}

		b.WriteString("  " + style.Render(c.Display))
		if c.Tooltip != "" && c.Tooltip != c.Display {
			b.WriteString(dimStyle.Render("  " + c.Tooltip))
		}
		b.WriteByte('\n')

		shown++
	}

	return b.String()
}

// visibleCandidates applies the fuzzy filter to the session's candidates.
// The selected candidate always stays visible.
func (m Model) visibleCandidates() []completion.Candidate {
	all := m.session.Candidates
	if m.filter == "" {
		return all
	}

	var out []completion.Candidate

	selected, hasSelected := m.session.Current()
	for _, c := range all {
		if fuzzy.MatchFold(m.filter, c.Display) || (hasSelected && c == selected) {
			out = append(out, c)
		}
	}

	return out
}

// SetFilter narrows the menu. It exists for front ends that separate menu
// filtering from line editing.
func (m Model) SetFilter(filter string) Model {
	m.filter = filter

	return m
}

// byteOffset converts a rune index from the line editor into a byte offset.
func byteOffset(s string, runeIdx int) int {
	for i := range s {
		if runeIdx == 0 {
			return i
		}

		runeIdx--
	}

	return len(s)
}

// Run starts the REPL on the current terminal. It refuses to start when
// stdin is not a TTY.
func Run(opts *completion.Options, history *shellenv.History) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("interact: stdin is not a terminal")
	}

	p := tea.NewProgram(NewModel(opts, history))
	_, err := p.Run()

	return err
}
