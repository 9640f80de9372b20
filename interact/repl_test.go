package interact

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove/completion"
	"github.com/coveshell/cove/shellenv"
)

func typedModel(t *testing.T, line string) Model {
	t.Helper()

	m := NewModel(&completion.Options{}, shellenv.NewHistory(10))
	m.input.SetValue(line)
	m.input.SetCursor(len(line))

	return m
}

func press(m Model, keyType tea.KeyType) Model {
	next, _ := m.Update(tea.KeyMsg{Type: keyType})

	return next.(Model)
}

func TestModel_TabCyclesCandidates(t *testing.T) {
	t.Parallel()

	m := typedModel(t, "get-i")

	m = press(m, tea.KeyTab)
	require.NotNil(t, m.session)
	assert.Equal(t, "get-history", m.input.Value())

	m = press(m, tea.KeyTab)
	assert.Equal(t, "get-item", m.input.Value())

	// Forward wraparound.
	m = press(m, tea.KeyTab)
	assert.Equal(t, "get-history", m.input.Value())
}

func TestModel_ShiftTabCyclesBackward(t *testing.T) {
	t.Parallel()

	m := typedModel(t, "get-i")

	// Backward from an unset cursor lands on the last candidate.
	m = press(m, tea.KeyShiftTab)
	assert.Equal(t, "get-item", m.input.Value())

	m = press(m, tea.KeyShiftTab)
	assert.Equal(t, "get-history", m.input.Value())
}

func TestModel_EscDropsSession(t *testing.T) {
	t.Parallel()

	m := typedModel(t, "get-i")
	m = press(m, tea.KeyTab)
	require.NotNil(t, m.session)

	m = press(m, tea.KeyEsc)
	assert.Nil(t, m.session)
}

func TestModel_TypingInvalidatesSession(t *testing.T) {
	t.Parallel()

	m := typedModel(t, "get-i")
	m = press(m, tea.KeyTab)
	require.NotNil(t, m.session)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(Model)
	assert.Nil(t, m.session)
}

func TestModel_EnterRecordsHistory(t *testing.T) {
	t.Parallel()

	history := shellenv.NewHistory(10)
	m := NewModel(&completion.Options{}, history)
	m.input.SetValue("get-process")
	m.input.SetCursor(len("get-process"))

	m = press(m, tea.KeyEnter)
	assert.Empty(t, m.input.Value())

	got := history.History()
	require.Len(t, got, 1)
	assert.Equal(t, "get-process", got[0].Line)
}

func TestModel_NoCandidatesKeepsLine(t *testing.T) {
	t.Parallel()

	m := typedModel(t, "get-item ")
	m = press(m, tea.KeyTab)

	// Path position with no provider configured: session exists, possibly
	// without candidates, and the line stays intact.
	require.NotNil(t, m.session)
	assert.Contains(t, m.input.Value(), "get-item")
}

func TestVisibleCandidates_FuzzyFilter(t *testing.T) {
	t.Parallel()

	m := typedModel(t, "get-i")
	m = press(m, tea.KeyTab)
	m = m.SetFilter("item")

	vis := m.visibleCandidates()
	names := make([]string, 0, len(vis))
	for _, c := range vis {
		names = append(names, c.Display)
	}

	// The filter keeps matches plus the current selection.
	assert.Contains(t, names, "get-item")
	assert.Contains(t, names, "get-history")

	m = m.SetFilter("zzz")
	vis = m.visibleCandidates()
	require.Len(t, vis, 1, "only the selection survives a non-matching filter")
	assert.Equal(t, "get-history", vis[0].Display)
}
