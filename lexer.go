package cove

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token type constants - negative values as per participle convention.
const (
	TokenEOF        lexer.TokenType = lexer.EOF
	TokenComment    lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	TokenString                                   // single- or double-quoted strings
	TokenVariable                                 // $-prefixed variable references
	TokenParameter                                // -Name parameter tokens, optional trailing :
	TokenBareword                                 // unquoted words, including paths
	TokenNumber                                   // numeric literals
	TokenDot                                      // member access dot
	TokenSemi                                     // ; and newline statement separators
	TokenPipe                                     // |
	TokenAmp                                      // & (invocation operator)
	TokenAt                                       // @ before a hash literal
	TokenOp                                       // operators
	TokenLParen                                   // (
	TokenRParen                                   // )
	TokenLBracket                                 // [
	TokenRBracket                                 // ]
	TokenLBrace                                   // {
	TokenRBrace                                   // }
	TokenWhitespace                               // spaces and tabs
)

// Quoting and word-structure characters shared with the completion engine.
const (
	EscapeChar  = '`'
	SingleQuote = '\''
	DoubleQuote = '"'
	HomeMarker  = '~'
)

// shellDefinition implements lexer.Definition for the cove command language.
type shellDefinition struct {
	symbols map[string]lexer.TokenType
}

// newShellLexer creates a new lexer Definition for cove source.
func newShellLexer() *shellDefinition {
	return &shellDefinition{
		symbols: map[string]lexer.TokenType{
			"EOF":        TokenEOF,
			"Comment":    TokenComment,
			"String":     TokenString,
			"Variable":   TokenVariable,
			"Parameter":  TokenParameter,
			"Bareword":   TokenBareword,
			"Number":     TokenNumber,
			"Dot":        TokenDot,
			"Semi":       TokenSemi,
			"Pipe":       TokenPipe,
			"Amp":        TokenAmp,
			"At":         TokenAt,
			"Op":         TokenOp,
			"Whitespace": TokenWhitespace,
			// Individual bracket tokens for grammar rules
			"(": TokenLParen,
			")": TokenRParen,
			"[": TokenLBracket,
			"]": TokenRBracket,
			"{": TokenLBrace,
			"}": TokenRBrace,
		},
	}
}

// Symbols returns the mapping of symbol names to token types.
func (d *shellDefinition) Symbols() map[string]lexer.TokenType {
	return d.symbols
}

// Lex creates a new Lexer for the given reader.
//
//nolint:ireturn // Required by participle's lexer.Definition interface.
func (d *shellDefinition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return d.LexBytes(filename, data)
}

// LexBytes implements lexer.BytesDefinition for efficiency.
//
//nolint:ireturn // Required by participle's lexer.BytesDefinition interface.
func (d *shellDefinition) LexBytes(filename string, data []byte) (lexer.Lexer, error) {
	return newLexerState(filename, string(data)), nil
}

// LexString implements lexer.StringDefinition for efficiency.
//
//nolint:ireturn // Required by participle's lexer.StringDefinition interface.
func (d *shellDefinition) LexString(filename string, input string) (lexer.Lexer, error) {
	return newLexerState(filename, input), nil
}

// lexerState holds the state for lexing.
//
// This lexer never fails: interactive completion needs a best-effort token
// stream for any input, including half-typed words and unterminated strings.
// The only context carried across tokens is the type of the last significant
// token, which disambiguates member-access dots from dots inside barewords.
type lexerState struct {
	filename string
	input    string
	offset   int
	line     int
	col      int

	// lastSig is the type of the last non-whitespace, non-comment token.
	lastSig lexer.TokenType
}

func newLexerState(filename, input string) *lexerState {
	return &lexerState{
		filename: filename,
		input:    input,
		offset:   0,
		line:     1,
		col:      1,
		lastSig:  TokenEOF,
	}
}

// Next returns the next token. The error is always nil; every input byte is
// part of some token.
func (l *lexerState) Next() (lexer.Token, error) {
	tok := l.next()
	switch tok.Type {
	case TokenWhitespace, TokenComment, TokenEOF:
	default:
		l.lastSig = tok.Type
	}

	return tok, nil
}

func (l *lexerState) next() lexer.Token {
	if l.eof() {
		return lexer.EOFToken(l.pos())
	}

	start := l.pos()
	r := l.peek()

	// Whitespace. Newlines separate statements and lex as Semi.
	if r == ' ' || r == '\t' || r == '\r' {
		for !l.eof() {
			if c := l.peek(); c != ' ' && c != '\t' && c != '\r' {
				break
			}
			l.advance()
		}

		return l.token(TokenWhitespace, start)
	}

	if r == '\n' {
		l.advance()

		return l.token(TokenSemi, start)
	}

	// Comment to end of line. A # inside a word is a word character.
	if r == '#' && l.atWordStart() {
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}

		return l.token(TokenComment, start)
	}

	// Quoted strings. Unterminated strings consume to end of input; the
	// parser and the completion engine both want the partial token.
	if r == SingleQuote || r == DoubleQuote {
		return l.scanString(start, r)
	}

	// Variable reference.
	if r == '$' && isIdentStart(l.peekAt(1)) {
		l.advance() // $

		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}

		return l.token(TokenVariable, start)
	}

	// Parameter token: a dash at word start followed by a letter.
	if r == '-' && l.atWordStart() && unicode.IsLetter(l.peekAt(1)) {
		l.advance() // -

		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}
		// The value separator belongs to the parameter token.
		if l.peek() == ':' {
			l.advance()
		}

		return l.token(TokenParameter, start)
	}

	// Member-access dot: only directly after an expression that can have
	// members. Anywhere else a dot starts or continues a bareword.
	if r == '.' && memberAccessBase(l.lastSig) {
		l.advance()

		return l.token(TokenDot, start)
	}

	// Hash literal marker.
	if r == '@' && l.peekAt(1) == '{' {
		l.advance()

		return l.token(TokenAt, start)
	}

	// Numbers, falling back to bareword when the word keeps going
	// (e.g. 2fast.txt).
	if isDigit(r) && l.atWordStart() {
		return l.scanNumberOrBareword(start)
	}

	// Multi-character operators (check before single-char).
	if l.atWordStart() {
		if tok, ok := l.scanMultiCharOp(start); ok {
			return tok
		}
	}

	switch r {
	case ';':
		l.advance()

		return l.token(TokenSemi, start)
	case '|':
		l.advance()

		return l.token(TokenPipe, start)
	case '&':
		l.advance()

		return l.token(TokenAmp, start)
	case '(':
		l.advance()

		return l.token(TokenLParen, start)
	case ')':
		l.advance()

		return l.token(TokenRParen, start)
	case '[':
		l.advance()

		return l.token(TokenLBracket, start)
	case ']':
		l.advance()

		return l.token(TokenRBracket, start)
	case '{':
		l.advance()

		return l.token(TokenLBrace, start)
	case '}':
		l.advance()

		return l.token(TokenRBrace, start)
	}

	// Operators only begin a token at word start; mid-word they are
	// ordinary word characters (key=value, a,b).
	if l.atWordStart() && strings.ContainsRune("=,<>!+*/%^?", r) {
		l.advance()

		return l.token(TokenOp, start)
	}

	return l.scanBareword(start)
}

func (l *lexerState) pos() lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   l.offset,
		Line:     l.line,
		Column:   l.col,
	}
}

func (l *lexerState) eof() bool {
	return l.offset >= len(l.input)
}

func (l *lexerState) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])

	return r
}

func (l *lexerState) peekAt(n int) rune {
	off := l.offset + n
	if off >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[off:])

	return r
}

// atWordStart reports whether the current offset begins a new word, i.e. the
// previous byte is input start, whitespace, or a structural separator.
func (l *lexerState) atWordStart() bool {
	if l.offset == 0 {
		return true
	}

	switch l.input[l.offset-1] {
	case ' ', '\t', '\r', '\n', ';', '|', '&', '(', ')', '{', '}', '[', ']':
		return true
	default:
		return false
	}
}

func (l *lexerState) advance() rune {
	if l.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexerState) match(s string) bool {
	return strings.HasPrefix(l.input[l.offset:], s)
}

func (l *lexerState) token(typ lexer.TokenType, start lexer.Position) lexer.Token {
	return lexer.Token{
		Type:  typ,
		Value: l.input[start.Offset:l.offset],
		Pos:   start,
	}
}

func (l *lexerState) scanString(start lexer.Position, quote rune) lexer.Token {
	l.advance() // opening quote

	for !l.eof() {
		ch := l.peek()

		// Backtick escapes only apply inside double quotes.
		if quote == DoubleQuote && ch == EscapeChar && l.peekAt(1) != 0 {
			l.advance() // backtick
			l.advance() // escaped char

			continue
		}

		if ch == quote {
			// A doubled quote is an escaped quote, not a close.
			if l.peekAt(1) == quote {
				l.advance()
				l.advance()

				continue
			}

			l.advance() // closing quote

			return l.token(TokenString, start)
		}

		l.advance()
	}

	// Unterminated: the token covers the rest of the input.
	return l.token(TokenString, start)
}

func (l *lexerState) scanMultiCharOp(start lexer.Position) (lexer.Token, bool) {
	multiOps := []string{"&&", "||", "==", "!=", "<=", ">=", ".."}

	for _, op := range multiOps {
		if l.match(op) {
			for range len(op) {
				l.advance()
			}

			return l.token(TokenOp, start), true
		}
	}

	return lexer.Token{}, false
}

func (l *lexerState) scanNumberOrBareword(start lexer.Position) lexer.Token {
	// Hex prefix.
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()

		for !l.eof() && isHexDigit(l.peek()) {
			l.advance()
		}
	} else {
		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}

		// Fractional part.
		if l.peek() == '.' && isDigit(l.peekAt(1)) {
			l.advance()

			for !l.eof() && isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	// If the word keeps going, this was a bareword all along (2fast.txt).
	if !l.eof() && isBarewordRune(l.peek()) {
		return l.continueBareword(start)
	}

	return l.token(TokenNumber, start)
}

func (l *lexerState) scanBareword(start lexer.Position) lexer.Token {
	// A leading backtick escapes the first character into the word.
	if l.peek() == EscapeChar && l.peekAt(1) != 0 {
		l.advance()
	}

	l.advance()

	return l.continueBareword(start)
}

func (l *lexerState) continueBareword(start lexer.Position) lexer.Token {
	for !l.eof() {
		r := l.peek()

		// A backtick escapes the following character into the word.
		if r == EscapeChar && l.peekAt(1) != 0 {
			l.advance()
			l.advance()

			continue
		}

		if !isBarewordRune(r) {
			break
		}

		l.advance()
	}

	return l.token(TokenBareword, start)
}

// Character helpers.

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isBarewordRune reports whether r may appear inside a bareword. Dots,
// dashes, slashes, colons and wildcard stars are word characters so that
// paths and key=value arguments lex as single tokens.
func isBarewordRune(r rune) bool {
	if r == 0 || r == ' ' || r == '\t' || r == '\r' || r == '\n' {
		return false
	}

	switch r {
	case ';', '|', '&', '(', ')', '{', '}', '[', ']', SingleQuote, DoubleQuote, '$', EscapeChar:
		return false
	default:
		return true
	}
}

// memberAccessBase reports whether a token of type t can be followed by a
// member-access dot.
func memberAccessBase(t lexer.TokenType) bool {
	switch t {
	case TokenVariable, TokenRParen, TokenRBracket, TokenString:
		return true
	default:
		return false
	}
}
