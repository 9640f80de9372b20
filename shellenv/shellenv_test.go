package shellenv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove/shellenv"
)

func TestVars(t *testing.T) {
	t.Parallel()

	v := shellenv.NewVars()
	v.Set("Proc", map[string]any{"Name": "coved"})

	got, ok := v.Get("proc")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Equal(t, map[string]any{"Name": "coved"}, got)

	names := make([]string, 0)
	for _, info := range v.Variables() {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, "proc")
	assert.Contains(t, names, "host")
	assert.IsNonDecreasing(t, names)

	v.Unset("PROC")
	_, ok = v.Get("proc")
	assert.False(t, ok)
}

func TestHistory(t *testing.T) {
	t.Parallel()

	h := shellenv.NewHistory(3)
	h.Add("get-item")
	h.Add("get-item") // repeat, dropped
	h.Add("   ")      // blank, dropped
	h.Add("set-location ~")
	h.Add("get-process")
	h.Add("stop-process coved")

	got := h.History()
	require.Len(t, got, 3, "ring keeps the newest entries")
	assert.Equal(t, "set-location ~", got[0].Line)
	assert.Equal(t, "stop-process coved", got[2].Line)
	assert.Greater(t, got[2].ID, got[0].ID)
}

func TestFSList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.cv"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))

	entries, err := shellenv.FS{}.List(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byName := map[string]struct {
		dir    bool
		hidden bool
	}{}
	for _, e := range entries {
		byName[e.Name] = struct {
			dir    bool
			hidden bool
		}{e.Dir, e.Hidden}
	}

	assert.False(t, byName["main.cv"].dir)
	assert.True(t, byName["sub"].dir)
	assert.True(t, byName[".hidden"].hidden)
}

func TestFSList_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := shellenv.FS{}.List(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
