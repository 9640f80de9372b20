package analysis

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/coveshell/cove"
)

// PositionToLexer converts 0-indexed LSP line/character coordinates to a
// 1-indexed lexer position.
func PositionToLexer(line, character uint32) lexer.Position {
	return lexer.Position{
		Line:   int(line) + 1,
		Column: int(character) + 1,
	}
}

// OffsetOf converts a 1-indexed lexer position into a byte offset within the
// given source. It returns len(source) when the position lies past the end.
func OffsetOf(source string, pos lexer.Position) int {
	line, col := 1, 1

	for i, r := range source {
		if line == pos.Line && col == pos.Column {
			return i
		}

		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return len(source)
}

// TokenAtOffset returns the token whose span contains the byte offset. A
// cursor at a token's end boundary still belongs to that token, which is the
// interesting case while typing. Whitespace tokens never match.
func TokenAtOffset(toks []lexer.Token, offset int) *lexer.Token {
	for i := range toks {
		tok := &toks[i]
		if tok.Type == cove.TokenWhitespace {
			continue
		}

		start := tok.Pos.Offset
		end := start + len(tok.Value)

		if start < offset && offset <= end {
			return tok
		}
		if start == offset && offset == end {
			return tok
		}
	}

	return nil
}

// PrevToken returns the last non-whitespace, non-comment token that ends at
// or before the byte offset, or nil if there is none.
func PrevToken(toks []lexer.Token, offset int) *lexer.Token {
	var prev *lexer.Token

	for i := range toks {
		tok := &toks[i]
		if tok.Type == cove.TokenWhitespace || tok.Type == cove.TokenComment {
			continue
		}

		if tok.Pos.Offset+len(tok.Value) > offset {
			break
		}

		prev = tok
	}

	return prev
}
