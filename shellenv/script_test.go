package shellenv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove/completion"
	"github.com/coveshell/cove/shellenv"
)

func TestScriptCompleter(t *testing.T) {
	t.Parallel()

	fn := shellenv.ScriptCompleter(`printf 'alpha\tthe first one\nbeta\n%s-suffix\n' "$COVE_WORD"`)

	got, err := fn(context.Background(), completion.ArgumentRequest{
		Command:   "deploy-app",
		Parameter: "env",
		Prefix:    "al",
	})
	require.NoError(t, err)

	// The helper sees the typed word via COVE_WORD; beta fails the prefix
	// filter; the tab column becomes the tooltip.
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Replacement)
	assert.Equal(t, "the first one", got[0].Tooltip)
	assert.Equal(t, completion.KindParameterValue, got[0].Kind)
	assert.Equal(t, "al-suffix", got[1].Replacement)
}

func TestScriptCompleter_FailingHelper(t *testing.T) {
	t.Parallel()

	fn := shellenv.ScriptCompleter("exit 3")

	_, err := fn(context.Background(), completion.ArgumentRequest{Prefix: "x"})
	assert.Error(t, err)
}
