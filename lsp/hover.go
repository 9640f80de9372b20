package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/analysis"
)

// Hover handles textDocument/hover: command names show their synopsis and
// parameter summary, parameters show their declared type.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil //nolint:nilnil
	}

	f := doc.Analysis
	offset := analysis.OffsetOf(doc.Content,
		analysis.PositionToLexer(params.Position.Line, params.Position.Character))

	tok := analysis.TokenAtOffset(f.Tokens, offset)
	if tok == nil {
		return nil, nil //nolint:nilnil
	}

	var content string

	switch tok.Type {
	case cove.TokenBareword:
		if info, ok := f.Catalog.Lookup(tok.Value); ok {
			content = commandHover(info)
		}
	case cove.TokenParameter:
		content = s.parameterHover(f, offset, tok.Value)
	}

	if content == "" {
		return nil, nil //nolint:nilnil
	}

	r := tokenRange(tok.Pos.Line, tok.Pos.Column, len(tok.Value))

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: content,
		},
		Range: &r,
	}, nil
}

func commandHover(info *cove.CommandInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**%s**", info.Name)
	if info.Synopsis != "" {
		fmt.Fprintf(&b, "\n\n%s", info.Synopsis)
	}

	if len(info.Parameters) > 0 {
		b.WriteString("\n\nParameters:")
		for _, p := range info.Parameters {
			typ := p.Type
			if p.Switch {
				typ = "switch"
			}
			fmt.Fprintf(&b, "\n- `-%s` %s", p.Name, typ)
		}
	}

	return b.String()
}

// parameterHover resolves the parameter token against its command.
func (s *Server) parameterHover(f *analysis.AnalyzedFile, offset int, raw string) string {
	cmd := enclosingCommand(f.Script, offset)
	if cmd == nil {
		return ""
	}

	info, ok := f.Catalog.Lookup(cmd.Name.Text())
	if !ok {
		return ""
	}

	name := strings.TrimSuffix(strings.TrimPrefix(raw, "-"), ":")
	param, err := info.Parameter(name)
	if err != nil {
		return ""
	}

	typ := param.Type
	if param.Switch {
		typ = "switch"
	}

	return fmt.Sprintf("**-%s** `%s`  \n%s", param.Name, typ, info.Name)
}

// enclosingCommand finds the innermost command whose span contains the
// offset.
func enclosingCommand(script *cove.Script, offset int) *cove.Command {
	if script == nil {
		return nil
	}

	var found *cove.Command

	var walk func(n cove.Node)
	walk = func(n cove.Node) {
		if cmd, ok := n.(*cove.Command); ok {
			span := cmd.Span()
			if span.Start.Offset <= offset && offset <= span.End.Offset {
				found = cmd
			}
		}

		for _, ch := range cove.Children(n) {
			walk(ch)
		}
	}

	walk(script)

	return found
}

func tokenRange(line, column, length int) protocol.Range {
	start := positionToLSP(line, column)

	return protocol.Range{
		Start: start,
		End:   protocol.Position{Line: start.Line, Character: start.Character + uint32(length)}, //nolint:gosec // token lengths are small
	}
}
