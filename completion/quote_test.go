package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/completion"
)

// reTokenize renders a leaf, runs the real lexer over the result and
// returns the single token's unescaped value.
func reTokenize(t *testing.T, leaf string, ctx completion.QuoteContext) string {
	t.Helper()

	rendered := completion.Render(leaf, ctx, false)

	var word []string

	for _, tok := range cove.Tokenize(rendered) {
		if tok.Type == cove.TokenWhitespace {
			continue
		}

		word = append(word, tok.Value)
	}

	require.Len(t, word, 1, "rendered %q must lex as exactly one token", rendered)

	unquoted, err := cove.UnquoteWord(word[0])
	require.NoError(t, err)

	return unquoted
}

func TestRender_RoundTripPrintableASCII(t *testing.T) {
	t.Parallel()

	styles := []completion.Style{
		completion.StyleBare,
		completion.StyleSingle,
		completion.StyleDouble,
	}

	for _, style := range styles {
		for c := byte(' '); c <= '~'; c++ {
			leaf := string(c)
			ctx := completion.QuoteContext{Style: style, Literal: true}

			got := reTokenize(t, leaf, ctx)
			assert.Equal(t, leaf, got, "style %v char %q", style, leaf)
		}
	}
}

func TestRender_EmbeddedSpaceForcesQuoting(t *testing.T) {
	t.Parallel()

	out := completion.Render("a b", completion.QuoteContext{Style: completion.StyleBare}, false)
	assert.Equal(t, "'a b'", out)

	got := reTokenize(t, "a b", completion.QuoteContext{Style: completion.StyleBare, Literal: true})
	assert.Equal(t, "a b", got)
}

func TestRender_QuotedStylesAlwaysWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		leaf string
		ctx  completion.QuoteContext
		want string
	}{
		{
			name: "single wraps plain text",
			leaf: "file.txt",
			ctx:  completion.QuoteContext{Style: completion.StyleSingle},
			want: "'file.txt'",
		},
		{
			name: "single doubles embedded quote",
			leaf: "it's",
			ctx:  completion.QuoteContext{Style: completion.StyleSingle},
			want: "'it''s'",
		},
		{
			name: "double escapes interpolation",
			leaf: "$name",
			ctx:  completion.QuoteContext{Style: completion.StyleDouble},
			want: "\"`$name\"",
		},
		{
			name: "double escapes embedded quote",
			leaf: `say "hi"`,
			ctx:  completion.QuoteContext{Style: completion.StyleDouble},
			want: "\"say `\"hi`\"\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, completion.Render(tt.leaf, tt.ctx, false))
		})
	}
}

func TestRender_WildcardMarkers(t *testing.T) {
	t.Parallel()

	// In non-literal mode brackets keep a backtick for the glob layer.
	out := completion.Render("a[1]", completion.QuoteContext{Style: completion.StyleSingle}, false)
	assert.Equal(t, "'a`[1`]'", out)

	// Literal mode emits them as plain text.
	out = completion.Render("a[1]", completion.QuoteContext{Style: completion.StyleSingle, Literal: true}, false)
	assert.Equal(t, "'a[1]'", out)
}

func TestRender_ForcedQuotesPickStyleByInterpolation(t *testing.T) {
	t.Parallel()

	bare := completion.QuoteContext{Style: completion.StyleBare}

	// No interpolation: forced wrapping prefers single quotes.
	assert.Equal(t, "'plain'", completion.Render("plain", bare, true))

	// Interpolation stays live inside double quotes.
	assert.Equal(t, "\"`$env/logs\"", completion.Render("$env/logs", bare, true))
}

func TestContextForWord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, completion.StyleBare, completion.ContextForWord("file").Style)
	assert.Equal(t, completion.StyleSingle, completion.ContextForWord("'file").Style)
	assert.Equal(t, completion.StyleDouble, completion.ContextForWord(`"file`).Style)
	assert.Equal(t, completion.StyleBare, completion.ContextForWord("").Style)
}
