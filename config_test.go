package cove_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove"
)

func TestFindConfig_WalksUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o700))

	cfgPath := filepath.Join(root, ".cove.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{}\n"), 0o600))

	found, err := cove.FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, found)
}

func TestFindConfig_NotFound(t *testing.T) {
	t.Parallel()

	_, err := cove.FindConfig(t.TempDir())
	assert.ErrorIs(t, err, cove.ErrConfigNotFound)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := `completion:
  literal_paths: true
  relative_paths: false
modules:
  roots:
    - ./modules
  watch: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cove.yaml"), []byte(content), 0o600))

	cfg, err := cove.LoadConfig(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Completion.LiteralPaths)
	require.NotNil(t, cfg.Completion.RelativePaths)
	assert.False(t, *cfg.Completion.RelativePaths)
	assert.Equal(t, []string{"./modules"}, cfg.Modules.Roots)
	assert.True(t, cfg.Modules.Watch)
}

func TestLoadConfigFile_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".cove.yaml")
	require.NoError(t, os.WriteFile(path, []byte("completion: ["), 0o600))

	_, err := cove.LoadConfigFile(path)
	assert.Error(t, err)
}
