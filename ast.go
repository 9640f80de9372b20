// Package cove provides the parser and command catalog for the cove command
// scripting language.
package cove

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// =============================================================================
// Common embedded types for AST nodes
// =============================================================================

// NodeMeta contains position and token information common to all AST nodes.
// Participle automatically populates these fields during parsing.
type NodeMeta struct {
	Pos    lexer.Position `parser:""`
	EndPos lexer.Position `parser:""`
	Tokens []lexer.Token  `parser:""`
}

// Span returns the source span of this node.
func (n *NodeMeta) Span() Span { return Span{Start: n.Pos, End: n.EndPos} }

// Contains reports whether the byte offset lies within the node's span,
// inclusive at both ends so a cursor at the very end of a word still belongs
// to it.
func (n *NodeMeta) Contains(offset int) bool {
	return n.Pos.Offset <= offset && offset <= n.EndPos.Offset
}

// Span is a source range between two lexer positions.
type Span struct {
	Start lexer.Position
	End   lexer.Position
}

// Contains reports whether a lexer position falls inside the span.
func (s Span) Contains(pos lexer.Position) bool {
	if pos.Line < s.Start.Line || (pos.Line == s.Start.Line && pos.Column < s.Start.Column) {
		return false
	}
	if pos.Line > s.End.Line || (pos.Line == s.End.Line && pos.Column > s.End.Column) {
		return false
	}

	return true
}

// =============================================================================
// Interfaces
// =============================================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span
	Contains(offset int) bool
}

// CompletableNode is implemented by AST nodes that can detect incomplete
// syntax. Incomplete nodes (e.g. "@{name " without a closing brace) mark the
// spots where context-aware completion applies while the user is typing.
type CompletableNode interface {
	Node
	// IsComplete returns true if the node is syntactically complete.
	IsComplete() bool
}

// =============================================================================
// Top-level AST nodes
// =============================================================================

// Script is a complete parsed input: a sequence of statements separated by
// semicolons or newlines.
type Script struct {
	NodeMeta

	Statements []*Statement `parser:"Semi* (@@ Semi*)*"`
}

// Statement is a single pipeline.
type Statement struct {
	NodeMeta

	Pipeline *Pipeline `parser:"@@"`
}

// Pipeline is one or more commands connected by |.
type Pipeline struct {
	NodeMeta

	Commands []*Command `parser:"@@ (Pipe @@)*"`
}

// Command is one pipeline element: a command invocation with its
// parameters and arguments, or a bare expression.
// Examples:
//
//	get-item -Path ./src -Recurse
//	& './build.cove' release
//	$proc.Name
type Command struct {
	NodeMeta

	Invoked  bool       `parser:"@Amp?"`
	Name     *Word      `parser:"( @@"`
	Expr     *Expr      `parser:"| @@ )"`
	Elements []*Element `parser:"@@*"`
}

// Word is a command-name word: a bareword or a quoted string.
type Word struct {
	NodeMeta

	Bare *string `parser:"@Bareword"`
	Str  *string `parser:"| @String"`
}

// Text returns the raw source text of the word, quotes included.
func (w *Word) Text() string {
	switch {
	case w == nil:
		return ""
	case w.Bare != nil:
		return *w.Bare
	case w.Str != nil:
		return *w.Str
	default:
		return ""
	}
}

// Element is one parameter or argument of a command.
type Element struct {
	NodeMeta

	Parameter *ParameterArg `parser:"@@"`
	Argument  *Expr         `parser:"| @@"`
}

// ParameterArg is a -Name token, possibly carrying the : value separator.
type ParameterArg struct {
	NodeMeta

	Tok string `parser:"@Parameter"`
}

// Name returns the parameter name without the leading dash or trailing colon.
func (p *ParameterArg) Name() string {
	name := strings.TrimPrefix(p.Tok, "-")

	return strings.TrimSuffix(name, ":")
}

// HasSeparator reports whether the user already typed the : value separator.
func (p *ParameterArg) HasSeparator() bool {
	return strings.HasSuffix(p.Tok, ":")
}

// =============================================================================
// Expressions
// =============================================================================

// Expr is a primary expression with an optional member-access chain.
type Expr struct {
	NodeMeta

	Primary *Primary     `parser:"@@"`
	Members []*MemberSeg `parser:"@@*"`
}

// MemberSeg is one .name segment of a member chain. The name is optional so
// that "$x." parses while the member is still being typed.
type MemberSeg struct {
	NodeMeta

	Name string `parser:"Dot @Bareword?"`
}

// IsComplete returns true once the member name is present.
func (m *MemberSeg) IsComplete() bool { return m.Name != "" }

// Primary is a single expression atom.
type Primary struct {
	NodeMeta

	Variable *string    `parser:"@Variable"`
	Str      *StringLit `parser:"| @@"`
	Number   *string    `parser:"| @Number"`
	Type     *TypeLit   `parser:"| @@"`
	Hash     *HashLit   `parser:"| @@"`
	Sub      *SubExpr   `parser:"| @@"`
	Bare     *string    `parser:"| @Bareword"`
}

// StringLit is a quoted string. Raw keeps the source text including quotes;
// completion derives its quoting context from the first character.
type StringLit struct {
	NodeMeta

	Raw string `parser:"@String"`
}

// Value returns the unquoted, unescaped string content.
func (s *StringLit) Value() string {
	v, _ := UnquoteWord(s.Raw)

	return v
}

// TypeLit is a [name] type literal. The name and closing bracket are optional
// so partially typed literals still parse.
type TypeLit struct {
	NodeMeta

	Name  string `parser:"'[' @Bareword?"`
	Close string `parser:"@']'?"`
}

// IsComplete returns true once the closing bracket is present.
func (t *TypeLit) IsComplete() bool { return t.Close != "" }

// HashLit is a @{key = value; ...} hash literal.
type HashLit struct {
	NodeMeta

	Entries []*HashEntry `parser:"At '{' Semi* @@*"`
	Close   string       `parser:"@'}'?"`
}

// IsComplete returns true once the closing brace is present.
func (h *HashLit) IsComplete() bool { return h.Close != "" }

// Keys returns the keys already present in the literal.
func (h *HashLit) Keys() []string {
	keys := make([]string, 0, len(h.Entries))
	for _, e := range h.Entries {
		if e != nil && e.Key != "" {
			keys = append(keys, e.Key)
		}
	}

	return keys
}

// HashEntry is one key = value pair. The value is optional while typing.
type HashEntry struct {
	NodeMeta

	Key   string `parser:"@Bareword"`
	Value *Expr  `parser:"(Op @@?)? Semi*"`
}

// SubExpr is a parenthesized pipeline.
type SubExpr struct {
	NodeMeta

	Pipeline *Pipeline `parser:"'(' @@?"`
	Close    string    `parser:"@')'?"`
}

// IsComplete returns true once the closing parenthesis is present.
func (s *SubExpr) IsComplete() bool { return s.Close != "" }

// =============================================================================
// Traversal
// =============================================================================

// Children returns the direct child nodes of n in source order. It is the
// basis for cursor location: tree walks pass an explicit ancestor path down
// instead of keeping parent pointers in the nodes.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Script:
		return nodes(v.Statements)
	case *Statement:
		if v.Pipeline != nil {
			return []Node{v.Pipeline}
		}
	case *Pipeline:
		return nodes(v.Commands)
	case *Command:
		out := make([]Node, 0, len(v.Elements)+2)
		if v.Name != nil {
			out = append(out, v.Name)
		}
		if v.Expr != nil {
			out = append(out, v.Expr)
		}
		for _, e := range v.Elements {
			out = append(out, e)
		}

		return out
	case *Element:
		if v.Parameter != nil {
			return []Node{v.Parameter}
		}
		if v.Argument != nil {
			return []Node{v.Argument}
		}
	case *Expr:
		out := make([]Node, 0, len(v.Members)+1)
		if v.Primary != nil {
			out = append(out, v.Primary)
		}
		for _, m := range v.Members {
			out = append(out, m)
		}

		return out
	case *Primary:
		switch {
		case v.Str != nil:
			return []Node{v.Str}
		case v.Type != nil:
			return []Node{v.Type}
		case v.Hash != nil:
			return []Node{v.Hash}
		case v.Sub != nil:
			return []Node{v.Sub}
		}
	case *HashLit:
		return nodes(v.Entries)
	case *HashEntry:
		if v.Value != nil {
			return []Node{v.Value}
		}
	case *SubExpr:
		if v.Pipeline != nil {
			return []Node{v.Pipeline}
		}
	}

	return nil
}

func nodes[T Node](in []T) []Node {
	out := make([]Node, 0, len(in))
	for _, n := range in {
		out = append(out, n)
	}

	return out
}

// PathTo returns the chain of nodes from root down to the innermost node
// whose span contains the byte offset, leaf last. It returns nil when the
// offset is outside the root's span.
func PathTo(root Node, offset int) []Node {
	if !root.Contains(offset) {
		return nil
	}

	path := []Node{root}

descend:
	for {
		for _, ch := range Children(path[len(path)-1]) {
			if ch.Contains(offset) {
				path = append(path, ch)

				continue descend
			}
		}

		return path
	}
}
