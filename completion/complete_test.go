package completion_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove/completion"
)

type fakeVars map[string]any

func (v fakeVars) Variables() []completion.VariableInfo {
	out := make([]completion.VariableInfo, 0, len(v))
	for name, value := range v {
		out = append(out, completion.VariableInfo{Name: name, Value: value})
	}

	return out
}

type fakeHistory []string

func (h fakeHistory) History() []completion.HistoryEntry {
	out := make([]completion.HistoryEntry, 0, len(h))
	for i, line := range h {
		out = append(out, completion.HistoryEntry{ID: i + 1, Line: line})
	}

	return out
}

type fakeProcs struct {
	procs []completion.ProcessInfo
	err   error
}

func (p fakeProcs) Processes(context.Context) ([]completion.ProcessInfo, error) {
	return p.procs, p.err
}

type fakeFS struct {
	home    string
	cwd     string
	entries map[string][]completion.PathEntry
}

func (f fakeFS) Home() string { return f.home }
func (f fakeFS) Cwd() string  { return f.cwd }

func (f fakeFS) List(dir string) ([]completion.PathEntry, error) {
	entries, ok := f.entries[dir]
	if !ok {
		return nil, errors.New("no such directory")
	}

	return entries, nil
}

func replacements(s *completion.Session) []string {
	out := make([]string, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		out = append(out, c.Replacement)
	}

	return out
}

func complete(t *testing.T, source string, cursor int, opts *completion.Options) *completion.Session {
	t.Helper()

	s, err := completion.Complete(context.Background(), source, cursor, opts)
	require.NoError(t, err)
	require.NotNil(t, s)

	return s
}

func TestComplete_CursorOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := completion.Complete(context.Background(), "get-item", 99, nil)
	assert.ErrorIs(t, err, completion.ErrInvalidArgument)

	_, err = completion.Complete(context.Background(), "get-item", -1, nil)
	assert.ErrorIs(t, err, completion.ErrInvalidArgument)
}

func TestComplete_CommandNames(t *testing.T) {
	t.Parallel()

	s := complete(t, "get-i", 5, nil)

	assert.Contains(t, replacements(s), "get-item")
	assert.Equal(t, 0, s.ReplacementStart)
	assert.Equal(t, 5, s.ReplacementLength)

	for _, c := range s.Candidates {
		assert.NotEmpty(t, c.Replacement)
		assert.NotEmpty(t, c.Display)
		assert.NotEmpty(t, c.Tooltip)
	}
}

func TestComplete_CommandAfterPipe(t *testing.T) {
	t.Parallel()

	source := "get-process | where-ob"

	s := complete(t, source, len(source), nil)
	assert.Contains(t, replacements(s), "where-object")
}

func TestComplete_CommandAfterInvocationOperator(t *testing.T) {
	t.Parallel()

	source := "& get-pr"

	s := complete(t, source, len(source), nil)
	assert.Contains(t, replacements(s), "get-process")
}

func TestComplete_ParameterNames(t *testing.T) {
	t.Parallel()

	source := "get-item -"

	s := complete(t, source, len(source), nil)

	got := replacements(s)
	assert.Contains(t, got, "-Path")
	assert.Contains(t, got, "-Force")

	for _, c := range s.Candidates {
		assert.Equal(t, completion.KindParameterName, c.Kind)
	}
}

func TestComplete_ParameterNamesExcludeBound(t *testing.T) {
	t.Parallel()

	source := "get-item -Path x -"

	s := complete(t, source, len(source), nil)

	got := replacements(s)
	assert.NotContains(t, got, "-Path", "already-bound parameters are not offered again")
	assert.Contains(t, got, "-Recurse")
}

func TestComplete_ParameterNamePrefix(t *testing.T) {
	t.Parallel()

	source := "get-item -Re"

	s := complete(t, source, len(source), nil)

	require.Equal(t, []string{"-Recurse"}, replacements(s))
	assert.Equal(t, len(source)-3, s.ReplacementStart)
	assert.Equal(t, 3, s.ReplacementLength)
}

func TestComplete_Variables(t *testing.T) {
	t.Parallel()

	opts := &completion.Options{
		Variables: fakeVars{"home": "/home/x", "host": "box", "count": 3},
	}

	source := "write-output $ho"

	s := complete(t, source, len(source), opts)

	assert.Equal(t, []string{"$home", "$host"}, replacements(s))

	for _, c := range s.Candidates {
		assert.Equal(t, completion.KindVariable, c.Kind)
	}
}

func TestComplete_MembersOfLiveValue(t *testing.T) {
	t.Parallel()

	opts := &completion.Options{
		Variables: fakeVars{"proc": map[string]any{"Name": "cove", "Id": 42}},
	}

	source := "$proc.N"

	s := complete(t, source, len(source), opts)

	assert.Contains(t, replacements(s), "Name")
	assert.NotContains(t, replacements(s), "Id")
}

func TestComplete_MembersRightAfterDot(t *testing.T) {
	t.Parallel()

	opts := &completion.Options{
		Variables: fakeVars{"proc": map[string]any{"Name": "cove", "Id": 42}},
	}

	source := "$proc."

	s := complete(t, source, len(source), opts)

	got := replacements(s)
	assert.Contains(t, got, "Id")
	assert.Contains(t, got, "Name")
}

func TestComplete_TypeLiteral(t *testing.T) {
	t.Parallel()

	src := &fakeTypeSource{entries: []completion.TypeEntry{
		{FullName: "User", Kind: completion.TypeEntryConcrete, Synopsis: "a user record"},
		{FullName: "Unit", Kind: completion.TypeEntryConcrete},
		{FullName: "net", Kind: completion.TypeEntryNamespace},
	}}

	opts := &completion.Options{Types: completion.NewTypeCache(src)}

	source := "new-object [Us"

	s := complete(t, source, len(source), opts)

	require.Equal(t, []string{"User"}, replacements(s))
	assert.Equal(t, completion.KindType, s.Candidates[0].Kind)
	assert.Equal(t, "a user record", s.Candidates[0].Tooltip)
}

func TestComplete_ProcessNamesForParameter(t *testing.T) {
	t.Parallel()

	opts := &completion.Options{
		Processes: fakeProcs{procs: []completion.ProcessInfo{
			{PID: 10, Name: "coved"},
			{PID: 11, Name: "cron"},
			{PID: 12, Name: "sshd"},
		}},
	}

	source := "stop-process -Name c"

	s := complete(t, source, len(source), opts)

	assert.Equal(t, []string{"coved", "cron"}, replacements(s))
}

func TestComplete_FailingSourceContributesNothing(t *testing.T) {
	t.Parallel()

	opts := &completion.Options{
		Processes: fakeProcs{err: errors.New("proc fs unavailable")},
	}

	source := "stop-process -Name c"

	s := complete(t, source, len(source), opts)
	assert.Empty(t, s.Candidates, "a failing collaborator degrades to no candidates, not an error")
}

func TestComplete_PanickingCompleterContributesNothing(t *testing.T) {
	t.Parallel()

	registry := completion.NewRegistry()
	registry.Register("stop-process:name", func(context.Context, completion.ArgumentRequest) ([]completion.Candidate, error) {
		panic("completer bug")
	})

	source := "stop-process -Name c"

	s := complete(t, source, len(source), &completion.Options{Registry: registry})
	assert.Empty(t, s.Candidates)
}

func TestComplete_PathArgument(t *testing.T) {
	t.Parallel()

	opts := &completion.Options{
		Paths: fakeFS{
			cwd: "/work",
			entries: map[string][]completion.PathEntry{
				"src": {
					{Name: "main.cv"},
					{Name: "mod", Dir: true},
					{Name: "notes.txt"},
				},
			},
		},
	}

	source := "get-item src/m"

	s := complete(t, source, len(source), opts)

	assert.Equal(t, []string{"src/main.cv", "src/mod/"}, replacements(s))
	assert.Equal(t, completion.KindProviderItem, s.Candidates[0].Kind)
	assert.Equal(t, completion.KindProviderContainer, s.Candidates[1].Kind)
}

func TestComplete_PathQuotingPreserved(t *testing.T) {
	t.Parallel()

	opts := &completion.Options{
		Paths: fakeFS{
			entries: map[string][]completion.PathEntry{
				".": {{Name: "my docs", Dir: true}},
			},
		},
	}

	source := "set-location 'my"

	s := complete(t, source, len(source), opts)

	require.Len(t, s.Candidates, 1)
	assert.Equal(t, "'my docs/'", s.Candidates[0].Replacement)
}

func TestComplete_History(t *testing.T) {
	t.Parallel()

	opts := &completion.Options{
		History: fakeHistory{"get-process", "set-location /tmp", "get-process -Name x"},
	}

	s := complete(t, "", 0, opts)

	// Recent entries first.
	assert.Equal(t, []string{
		"get-process -Name x",
		"set-location /tmp",
		"get-process",
	}, replacements(s))

	for _, c := range s.Candidates {
		assert.Equal(t, completion.KindHistory, c.Kind)
	}
}

func TestComplete_EmptyResolutionIsEmptySession(t *testing.T) {
	t.Parallel()

	source := "unknowncmd somearg"

	s := complete(t, source, len(source), &completion.Options{})

	assert.NotNil(t, s.Candidates)
	assert.Empty(t, s.Candidates)

	_, ok := s.Next(true)
	assert.False(t, ok)
}

func TestComplete_OverrideTrustedWhenWellFormed(t *testing.T) {
	t.Parallel()

	override := func(context.Context, string, int) (*completion.Session, error) {
		return &completion.Session{
			Candidates:        []completion.Candidate{completion.NewCandidate("custom", completion.KindText)},
			CursorIndex:       -1,
			ReplacementStart:  0,
			ReplacementLength: 5,
		}, nil
	}

	s := complete(t, "get-i", 5, &completion.Options{Override: override})
	assert.Equal(t, []string{"custom"}, replacements(s))
}

func TestComplete_MalformedOverrideFallsThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   completion.Override
	}{
		{
			name: "error",
			fn: func(context.Context, string, int) (*completion.Session, error) {
				return nil, errors.New("boom")
			},
		},
		{
			name: "panic",
			fn: func(context.Context, string, int) (*completion.Session, error) {
				panic("override bug")
			},
		},
		{
			name: "span past input",
			fn: func(context.Context, string, int) (*completion.Session, error) {
				return &completion.Session{
					CursorIndex:       -1,
					ReplacementStart:  0,
					ReplacementLength: 1000,
				}, nil
			},
		},
		{
			name: "empty candidate fields",
			fn: func(context.Context, string, int) (*completion.Session, error) {
				return &completion.Session{
					Candidates:  []completion.Candidate{{Replacement: "x"}},
					CursorIndex: -1,
				}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := complete(t, "get-i", 5, &completion.Options{Override: tt.fn})
			assert.Contains(t, replacements(s), "get-item", "engine resolution ran instead")
		})
	}
}

func TestComplete_CancelledContextReturnsPartial(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := &completion.Options{
		Paths: fakeFS{entries: map[string][]completion.PathEntry{
			".": {{Name: "a.txt"}},
		}},
	}

	s, err := completion.Complete(ctx, "get-item a", 10, opts)
	require.NoError(t, err)
	assert.Empty(t, s.Candidates, "cancellation is best-effort, not an error")
}
