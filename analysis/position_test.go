package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/analysis"
)

func TestPositionToLexer(t *testing.T) {
	t.Parallel()

	pos := analysis.PositionToLexer(0, 0)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 1, pos.Column)

	pos = analysis.PositionToLexer(4, 12)
	assert.Equal(t, 5, pos.Line)
	assert.Equal(t, 13, pos.Column)
}

func TestOffsetOf(t *testing.T) {
	t.Parallel()

	source := "get-item\nset-location ~\n"

	tests := []struct {
		name string
		line int
		col  int
		want int
	}{
		{name: "start of file", line: 1, col: 1, want: 0},
		{name: "mid first line", line: 1, col: 5, want: 4},
		{name: "start of second line", line: 2, col: 1, want: 9},
		{name: "mid second line", line: 2, col: 14, want: 22},
		{name: "past the end", line: 9, col: 1, want: len(source)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := analysis.OffsetOf(source, analysis.PositionToLexer(uint32(tt.line-1), uint32(tt.col-1)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenAtOffset(t *testing.T) {
	t.Parallel()

	toks := cove.Tokenize("get-item -Path src")

	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{name: "inside command name", offset: 4, want: "get-item"},
		{name: "end of command name", offset: 8, want: "get-item"},
		{name: "in whitespace", offset: 9, want: ""},
		{name: "end of parameter", offset: 14, want: "-Path"},
		{name: "end of input", offset: 18, want: "src"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tok := analysis.TokenAtOffset(toks, tt.offset)

			if tt.want == "" {
				assert.Nil(t, tok)
				return
			}

			require.NotNil(t, tok)
			assert.Equal(t, tt.want, tok.Value)
		})
	}
}

func TestPrevToken(t *testing.T) {
	t.Parallel()

	toks := cove.Tokenize("$proc. # note")

	tok := analysis.PrevToken(toks, 6)
	require.NotNil(t, tok)
	assert.Equal(t, ".", tok.Value)

	// Comments are skipped like whitespace.
	tok = analysis.PrevToken(toks, len("$proc. # note"))
	require.NotNil(t, tok)
	assert.Equal(t, ".", tok.Value)

	assert.Nil(t, analysis.PrevToken(toks, 0))
}
