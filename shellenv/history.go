package shellenv

import (
	"strings"
	"sync"

	"github.com/coveshell/cove/completion"
)

// defaultHistoryCap bounds the history ring when no capacity is given.
const defaultHistoryCap = 1000

// History is a bounded ring of executed input lines.
type History struct {
	mu      sync.Mutex
	cap     int
	nextID  int
	entries []completion.HistoryEntry
}

var _ completion.HistorySource = (*History)(nil)

// NewHistory creates a history ring holding at most capacity lines.
// Non-positive capacities fall back to the default.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}

	return &History{cap: capacity, nextID: 1}
}

// Add records an executed line. Blank lines and immediate repeats of the
// previous line are not recorded.
func (h *History) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1].Line == line {
		return
	}

	h.entries = append(h.entries, completion.HistoryEntry{ID: h.nextID, Line: line})
	h.nextID++

	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
}

// History returns the recorded lines, oldest first.
func (h *History) History() []completion.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]completion.HistoryEntry, len(h.entries))
	copy(out, h.entries)

	return out
}
