package completion

// Session is the result of one completion request: the merged candidate
// sequence, the span of input a chosen candidate replaces, and a cursor for
// cycling. Candidates are immutable after construction; only CursorIndex
// moves, and only through Next.
type Session struct {
	Candidates []Candidate

	// CursorIndex is the currently selected candidate, -1 before the
	// first call to Next.
	CursorIndex int

	// ReplacementStart and ReplacementLength identify the region of the
	// original input to overwrite. Both are -1 when no span was
	// identified.
	ReplacementStart  int
	ReplacementLength int
}

// newSession builds a session over already-merged candidates with the
// cursor unset.
func newSession(candidates []Candidate, start, length int) *Session {
	if candidates == nil {
		candidates = []Candidate{}
	}

	return &Session{
		Candidates:        candidates,
		CursorIndex:       -1,
		ReplacementStart:  start,
		ReplacementLength: length,
	}
}

// emptySession is what a request that resolved to nothing returns: a
// visibly empty candidate list, never nil.
func emptySession() *Session {
	return newSession(nil, -1, -1)
}

// Next advances the cursor and returns the newly selected candidate.
// Cycling wraps in both directions. On an empty session it returns
// (zero, false) and leaves the cursor untouched.
func (s *Session) Next(forward bool) (Candidate, bool) {
	n := len(s.Candidates)
	if n == 0 {
		return Candidate{}, false
	}

	if forward {
		s.CursorIndex++
		if s.CursorIndex >= n {
			s.CursorIndex = 0
		}
	} else {
		s.CursorIndex--
		if s.CursorIndex < 0 {
			s.CursorIndex = n - 1
		}
	}

	return s.Candidates[s.CursorIndex], true
}

// Current returns the selected candidate, or false when the cursor is
// unset or the session is empty.
func (s *Session) Current() (Candidate, bool) {
	if s.CursorIndex < 0 || s.CursorIndex >= len(s.Candidates) {
		return Candidate{}, false
	}

	return s.Candidates[s.CursorIndex], true
}
