package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/coveshell/cove/analysis"
	"github.com/coveshell/cove/completion"
)

// Completion handles textDocument/completion requests by running the
// engine at the cursor's byte offset and translating the session.
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	offset := analysis.OffsetOf(doc.Content,
		analysis.PositionToLexer(params.Position.Line, params.Position.Character))

	session, err := completion.Complete(ctx, doc.Content, offset, s.opts)
	if err != nil {
		s.logger.Error("Completion failed", zap.Error(err))

		return nil, err
	}

	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int("offset", offset),
		zap.Int("candidates", len(session.Candidates)))

	return sessionToList(doc.Content, session), nil
}

// sessionToList converts an engine session into an LSP completion list.
// When the session carries a replacement span each item gets a TextEdit
// over it; otherwise the client inserts at the cursor.
func sessionToList(content string, session *completion.Session) *protocol.CompletionList {
	var editRange *protocol.Range
	if session.ReplacementStart >= 0 && session.ReplacementLength >= 0 {
		r := protocol.Range{
			Start: offsetToPosition(content, session.ReplacementStart),
			End:   offsetToPosition(content, session.ReplacementStart+session.ReplacementLength),
		}
		editRange = &r
	}

	items := make([]protocol.CompletionItem, 0, len(session.Candidates))

	for i, c := range session.Candidates {
		item := protocol.CompletionItem{
			Label:  c.Display,
			Kind:   completionItemKind(c.Kind),
			Detail: c.Tooltip,

			// Preserve engine ordering; clients sort by SortText.
			SortText:   fmt.Sprintf("%05d", i),
			FilterText: c.Replacement,
		}

		if editRange != nil {
			item.TextEdit = &protocol.TextEdit{
				Range:   *editRange,
				NewText: c.Replacement,
			}
		} else {
			item.InsertText = c.Replacement
		}

		items = append(items, item)
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}
}

func completionItemKind(kind completion.Kind) protocol.CompletionItemKind {
	switch kind {
	case completion.KindCommand:
		return protocol.CompletionItemKindFunction
	case completion.KindHistory:
		return protocol.CompletionItemKindText
	case completion.KindProviderItem:
		return protocol.CompletionItemKindFile
	case completion.KindProviderContainer:
		return protocol.CompletionItemKindFolder
	case completion.KindProperty:
		return protocol.CompletionItemKindProperty
	case completion.KindMethod:
		return protocol.CompletionItemKindMethod
	case completion.KindParameterName, completion.KindParameterValue:
		return protocol.CompletionItemKindField
	case completion.KindVariable:
		return protocol.CompletionItemKindVariable
	case completion.KindNamespace:
		return protocol.CompletionItemKindModule
	case completion.KindType:
		return protocol.CompletionItemKindClass
	case completion.KindKeyword, completion.KindDynamicKeyword:
		return protocol.CompletionItemKindKeyword
	case completion.KindText:
		return protocol.CompletionItemKindText
	default:
		return protocol.CompletionItemKindText
	}
}

// offsetToPosition converts a byte offset into 0-indexed LSP coordinates.
func offsetToPosition(content string, offset int) protocol.Position {
	if offset > len(content) {
		offset = len(content)
	}

	var line, col uint32

	for _, r := range content[:offset] {
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}

	return protocol.Position{Line: line, Character: col}
}
