package completion_test

import (
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/analysis"
	"github.com/coveshell/cove/completion"
)

// bind parses a single command line and runs the binder over it.
func bind(t *testing.T, source string) (*cove.Command, *analysis.BindingResult) {
	t.Helper()

	script, err := cove.ParseString(source)
	require.NoError(t, err)
	require.NotEmpty(t, script.Statements)

	cmd := script.Statements[0].Pipeline.Commands[0]

	binding, _ := analysis.Bind(cmd, cove.Builtin())

	return cmd, binding
}

// tokenAt returns the non-whitespace token covering the byte offset.
func tokenAt(t *testing.T, source string, offset int) lexer.Token {
	t.Helper()

	tok := analysis.TokenAtOffset(cove.Tokenize(source), offset)
	require.NotNil(t, tok, "no token at offset %d in %q", offset, source)

	return *tok
}

func TestLocateAtToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		source         string
		offset         int
		wantPositional bool
		wantPosition   int
		wantBoundName  string // parameter name of the claimed pair, if any
	}{
		{
			name:           "first positional word",
			source:         "stop-process alph",
			offset:         14,
			wantPositional: true,
			wantPosition:   0,
		},
		{
			name:           "second positional word",
			source:         "where-object Name alph",
			offset:         19,
			wantPositional: true,
			wantPosition:   1,
		},
		{
			name:          "inside a named parameter value",
			source:        "get-item -Path src/ma",
			offset:        18,
			wantBoundName: "Path",
		},
		{
			name:          "separator typed but no value yet",
			source:        "get-item -Path: ",
			offset:        16,
			wantBoundName: "Path",
		},
		{
			name:           "after the last argument",
			source:         "where-object Name 3 ",
			offset:         20,
			wantPositional: true,
			wantPosition:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, binding := bind(t, tt.source)

			var tok lexer.Token
			if tt.offset < len(tt.source) && tt.source[tt.offset-1] != ' ' {
				tok = tokenAt(t, tt.source, tt.offset)
			} else {
				tok = lexer.Token{Pos: lexer.Position{Offset: tt.offset}}
			}

			loc := completion.LocateAtToken(binding.Pairs, tok)

			assert.Equal(t, tt.wantPositional, loc.Positional)

			if tt.wantPositional {
				assert.Equal(t, tt.wantPosition, loc.Position)
			}

			if tt.wantBoundName != "" {
				require.NotNil(t, loc.Pair)
				require.NotNil(t, loc.Pair.Info)
				assert.Equal(t, tt.wantBoundName, loc.Pair.Info.Name)
			}
		})
	}
}

// Both locator variants must agree when they describe the same cursor
// position.
func TestLocate_TokenAndNodeVariantsAgree(t *testing.T) {
	t.Parallel()

	source := "stop-process alpha beta"

	cmd, binding := bind(t, source)

	tok := tokenAt(t, source, 20) // inside "beta"
	byToken := completion.LocateAtToken(binding.Pairs, tok)

	require.Len(t, cmd.Elements, 2)
	target := cmd.Elements[1].Argument
	require.NotNil(t, target)

	byNode, ok := completion.LocateAtNode(binding.Pairs, target)
	require.True(t, ok)

	assert.Equal(t, byToken.Positional, byNode.Positional)
	assert.Equal(t, byToken.Position, byNode.Position)
	assert.Same(t, byToken.Pair, byNode.Pair)
}

func TestLocateAtNode_NoMatchIsOrdinary(t *testing.T) {
	t.Parallel()

	_, binding := bind(t, "stop-process alpha")

	// A node from a different parse is not part of any pair.
	other, err := cove.ParseString("get-item beta")
	require.NoError(t, err)

	stray := other.Statements[0].Pipeline.Commands[0].Elements[0].Argument

	_, ok := completion.LocateAtNode(binding.Pairs, stray)
	assert.False(t, ok)
}

func TestCompletePositionalArgument(t *testing.T) {
	t.Parallel()

	unboundOf := func(t *testing.T, command string) ([]*cove.ParameterInfo, string) {
		t.Helper()

		info, ok := cove.Builtin().Lookup(command)
		require.True(t, ok)

		return info.Parameters, info.DefaultSet
	}

	t.Run("default set beats equal position elsewhere", func(t *testing.T) {
		t.Parallel()

		// get-item declares Path at position 0 in its default set and
		// LiteralPath at position 0 in another set.
		params, defaultSet := unboundOf(t, "get-item")

		got := completion.CompletePositionalArgument(params, 0, defaultSet)
		require.NotNil(t, got)
		assert.Equal(t, "Path", got.Name)
	})

	t.Run("closest position not less than requested", func(t *testing.T) {
		t.Parallel()

		params, defaultSet := unboundOf(t, "where-object")

		got := completion.CompletePositionalArgument(params, 1, defaultSet)
		require.NotNil(t, got)
		assert.Equal(t, "Value", got.Name)
	})

	t.Run("remaining-arguments fallback", func(t *testing.T) {
		t.Parallel()

		// get-command's Name takes all remaining arguments from
		// position 0.
		params, defaultSet := unboundOf(t, "get-command")

		got := completion.CompletePositionalArgument(params, 3, defaultSet)
		require.NotNil(t, got)
		assert.Equal(t, "Name", got.Name)
	})

	t.Run("no positional parameter", func(t *testing.T) {
		t.Parallel()

		params, defaultSet := unboundOf(t, "get-process")

		got := completion.CompletePositionalArgument(params, 2, defaultSet)
		assert.Nil(t, got)
	})
}
