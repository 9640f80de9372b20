package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/analysis"
)

// publishDiagnostics converts analysis diagnostics to LSP format and
// publishes them.
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	if doc.Analysis == nil {
		return
	}

	diagnostics := make([]protocol.Diagnostic, 0, len(doc.Analysis.Diagnostics))
	for _, d := range doc.Analysis.Diagnostics {
		diagnostics = append(diagnostics, convertDiagnostic(d))
	}

	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version), //nolint:gosec // LSP versions are non-negative
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Error("Failed to publish diagnostics", zap.Error(err))
	}
}

// convertDiagnostic converts an analysis.Diagnostic to the LSP shape.
func convertDiagnostic(d analysis.Diagnostic) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    spanToRange(d.Span),
		Severity: convertSeverity(d.Severity),
		Code:     d.Code,
		Source:   d.Source,
		Message:  d.Message,
	}
}

func convertSeverity(sev analysis.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case analysis.SeverityError:
		return protocol.DiagnosticSeverityError
	case analysis.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case analysis.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	case analysis.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

// spanToRange converts a 1-indexed source span to a 0-indexed LSP range.
func spanToRange(span cove.Span) protocol.Range {
	return protocol.Range{
		Start: positionToLSP(span.Start.Line, span.Start.Column),
		End:   positionToLSP(span.End.Line, span.End.Column),
	}
}

func positionToLSP(line, column int) protocol.Position {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}

	return protocol.Position{
		Line:      uint32(line - 1),   //nolint:gosec // clamped above
		Character: uint32(column - 1), //nolint:gosec // clamped above
	}
}
