package cove

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// shellLexer is the custom lexer for the cove command language.
// Implements lexer.Definition for full control over tokenization.
var shellLexer = newShellLexer()

var parser = participle.MustBuild[Script](
	participle.Lexer(shellLexer),
	participle.Elide("Whitespace", "Comment"),
)

// Parse parses cove source and returns the resulting Script AST.
// The AST is best-effort: unterminated strings and half-typed literals still
// produce nodes, which is what interactive completion depends on.
func Parse(data []byte) (*Script, error) {
	return parser.ParseBytes("", data)
}

// ParseString is Parse over a string.
func ParseString(input string) (*Script, error) {
	return parser.ParseString("", input)
}

// Tokenize runs just the lexer and returns every token including whitespace
// and comments. The completion engine works on this stream alongside the AST.
// The result is never nil; empty input yields an empty stream.
func Tokenize(input string) []lexer.Token {
	state := newLexerState("", input)

	toks := []lexer.Token{}

	for {
		tok, _ := state.Next()
		if tok.EOF() {
			return toks
		}

		toks = append(toks, tok)
	}
}
