package completion

import (
	"strings"

	"github.com/coveshell/cove"
)

// Style is the quoting style of the token being completed.
type Style int

const (
	StyleBare Style = iota
	StyleSingle
	StyleDouble
)

func (s Style) String() string {
	switch s {
	case StyleSingle:
		return "single"
	case StyleDouble:
		return "double"
	default:
		return "bare"
	}
}

// QuoteContext captures how the token under the cursor was quoted and
// whether wildcard metacharacters should be treated as literal text. It is
// computed once per completion attempt and drives both escaping and path
// rendering.
type QuoteContext struct {
	Style   Style
	Literal bool
}

// ContextForWord derives the quoting context from the raw source text of
// the word being completed.
func ContextForWord(raw string) QuoteContext {
	if raw == "" {
		return QuoteContext{Style: StyleBare}
	}

	switch raw[0] {
	case cove.SingleQuote:
		return QuoteContext{Style: StyleSingle}
	case cove.DoubleQuote:
		return QuoteContext{Style: StyleDouble}
	default:
		return QuoteContext{Style: StyleBare}
	}
}

// Escape renders raw so it survives re-tokenization in the given context.
// For StyleBare the second result reports that the text cannot stand as a
// bare token and must be wrapped in quotes; in that case the caller should
// re-escape under the wrapping style via Render.
func Escape(raw string, ctx QuoteContext) (string, bool) {
	var b strings.Builder

	forces := false

	for i, r := range raw {
		emit, f := escapeRune(r, i == 0, ctx)
		if f {
			forces = true
		}

		b.WriteString(emit)
	}

	return b.String(), forces
}

// escapeRune is the per-character policy. first is true for the initial
// character of the token, where bare output has extra ambiguities (comment
// markers, parameter dashes, hash-literal sigils).
func escapeRune(r rune, first bool, ctx QuoteContext) (string, bool) {
	switch ctx.Style {
	case StyleSingle:
		return escapeSingle(r, ctx.Literal)
	case StyleDouble:
		return escapeDouble(r, ctx.Literal)
	default:
		return escapeBare(r, first, ctx.Literal)
	}
}

func escapeBare(r rune, first, literal bool) (string, bool) {
	if first && (r == '#' || r == '-' || r == '@') {
		return string(r), true
	}

	switch r {
	case ' ', '\t', '\r', '\n', ',', ';', '(', ')', '{', '}', '|', '&':
		return string(r), true
	case rune(cove.SingleQuote), rune(cove.DoubleQuote):
		return string(r), true
	case '[', ']':
		if literal {
			// Tokenizer-level escape only.
			return string(cove.EscapeChar) + string(r), false
		}

		// The glob layer needs to see an escape too, which a bare
		// token cannot carry; fall back to quoting.
		return string(r), true
	case rune(cove.EscapeChar):
		return string(cove.EscapeChar) + string(cove.EscapeChar), false
	case '$':
		return string(cove.EscapeChar) + "$", false
	default:
		return string(r), false
	}
}

func escapeSingle(r rune, literal bool) (string, bool) {
	switch r {
	case rune(cove.SingleQuote):
		// Balance the wrapping quote by doubling.
		return "''", false
	case '[', ']':
		if literal {
			return string(r), false
		}

		// Single-quoted content is verbatim, so one backtick
		// survives for the glob layer.
		return string(cove.EscapeChar) + string(r), false
	default:
		return string(r), false
	}
}

func escapeDouble(r rune, literal bool) (string, bool) {
	switch r {
	case rune(cove.DoubleQuote):
		return string(cove.EscapeChar) + string(cove.DoubleQuote), false
	case rune(cove.EscapeChar):
		return string(cove.EscapeChar) + string(cove.EscapeChar), false
	case '$':
		return string(cove.EscapeChar) + "$", false
	case '[', ']':
		if literal {
			return string(r), false
		}

		// Doubled escape: one backtick survives unquoting for the
		// glob layer.
		return string(cove.EscapeChar) + string(cove.EscapeChar) + string(r), false
	default:
		return string(r), false
	}
}

// Render produces the final replacement fragment for raw under ctx. When
// the context is a quoted style, the result is wrapped in that quote
// unconditionally. In bare style the text is wrapped only when escaping
// reports it structurally necessary or the caller forces it; forced
// wrapping prefers single quotes unless the text carries interpolation
// markers that must stay live.
func Render(raw string, ctx QuoteContext, forceQuotes bool) string {
	switch ctx.Style {
	case StyleSingle:
		s, _ := Escape(raw, ctx)

		return string(cove.SingleQuote) + s + string(cove.SingleQuote)
	case StyleDouble:
		s, _ := Escape(raw, ctx)

		return string(cove.DoubleQuote) + s + string(cove.DoubleQuote)
	}

	s, forces := Escape(raw, ctx)
	if !forces && !forceQuotes {
		return s
	}

	wrap := QuoteContext{Style: StyleSingle, Literal: ctx.Literal}
	if strings.ContainsRune(raw, '$') && forceQuotes {
		wrap.Style = StyleDouble
	}

	quoted, _ := Escape(raw, wrap)

	q := string(cove.SingleQuote)
	if wrap.Style == StyleDouble {
		q = string(cove.DoubleQuote)
	}

	return q + quoted + q
}
