package modules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/completion"
	"github.com/coveshell/cove/modules"
)

const widgetsModule = `# widgets module
command get-widget @{ synopsis = 'Gets widgets by name.' } @{ name = 'Name'; type = 'string'; position = '0' } @{ name = 'Force'; switch = 'true' }

class acme.Widget @{ name = 'Name'; type = 'string' } @{ name = 'Spin'; method = 'true' } @{ name = 'secret'; hidden = 'true' }
`

func loadRoot(t *testing.T, files map[string]string) *modules.Loader {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	loader := modules.NewLoader([]string{root})
	require.NoError(t, loader.Load())

	return loader
}

func TestLoader_DiscoversModules(t *testing.T) {
	t.Parallel()

	loader := loadRoot(t, map[string]string{
		"widgets.cove":      widgetsModule,
		"nested/tools.cove": "command use-tool @{ name = 'Tool'; position = '0' }\n",
		"notes.txt":         "not a module",
	})

	mods := loader.Modules()
	require.Len(t, mods, 2)
	assert.Equal(t, "tools", mods[0].Name)
	assert.Equal(t, "widgets", mods[1].Name)
}

func TestLoader_RegisterCommands(t *testing.T) {
	t.Parallel()

	loader := loadRoot(t, map[string]string{"widgets.cove": widgetsModule})

	cat := cove.NewCatalog()
	loader.RegisterCommands(cat)

	info, ok := cat.Lookup("get-widget")
	require.True(t, ok)
	assert.Equal(t, "Gets widgets by name.", info.Synopsis)

	name, err := info.Parameter("Name")
	require.NoError(t, err)
	placement, ok := name.SetInfo(cove.AllSets)
	require.True(t, ok)
	assert.Equal(t, 0, placement.Position)

	force, err := info.Parameter("Force")
	require.NoError(t, err)
	assert.True(t, force.Switch)
}

func TestLoader_TypeEntries(t *testing.T) {
	t.Parallel()

	loader := loadRoot(t, map[string]string{"widgets.cove": widgetsModule})

	byName := map[string]completion.TypeEntryKind{}
	for _, e := range loader.TypeEntries() {
		byName[e.FullName] = e.Kind
	}

	assert.Equal(t, completion.TypeEntryConcrete, byName["acme.Widget"])
	assert.Equal(t, completion.TypeEntryNamespace, byName["acme"])
}

func TestLoader_ClassMembers(t *testing.T) {
	t.Parallel()

	loader := loadRoot(t, map[string]string{"widgets.cove": widgetsModule})

	got := completion.UnifyMembers(loader.ClassMembers("acme.Widget"), completion.MemberOptions{})

	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Display)
	}
	assert.Equal(t, []string{"Name", "Spin"}, names, "hidden members are filtered")

	// Short names resolve against namespaced classes.
	short := loader.ClassMembers("widget")
	assert.Len(t, short, 3)
}

func TestLoader_ReloadReplacesView(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "widgets.cove")
	require.NoError(t, os.WriteFile(path, []byte(widgetsModule), 0o600))

	loader := modules.NewLoader([]string{root})
	require.NoError(t, loader.Load())
	require.Len(t, loader.Modules(), 1)

	require.NoError(t, os.Remove(path))
	require.NoError(t, loader.Load())
	assert.Empty(t, loader.Modules())
}

func TestLoader_MissingRoot(t *testing.T) {
	t.Parallel()

	loader := modules.NewLoader([]string{filepath.Join(t.TempDir(), "absent")})
	require.NoError(t, loader.Load())
	assert.Empty(t, loader.Modules())
}
