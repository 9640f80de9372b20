// Package lsp exposes the completion engine and analyzer over the Language
// Server Protocol.
package lsp

import (
	"context"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/coveshell/cove"
	"github.com/coveshell/cove/analysis"
	"github.com/coveshell/cove/completion"
)

// Server holds the open-document state and serves completion and
// diagnostics over it.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	analyzer *analysis.Analyzer

	// opts carries the completion collaborators shared by every request.
	opts *completion.Options

	initialized   bool
	shutdown      bool
	workspaceRoot string
}

// Document represents an open document in the server.
type Document struct {
	URI      protocol.DocumentURI
	Version  int32
	Content  string
	Analysis *analysis.AnalyzedFile
}

// NewServer creates an LSP server. A nil opts serves completions from the
// builtin catalog only.
func NewServer(client protocol.Client, logger *zap.Logger, opts *completion.Options) *Server {
	if opts == nil {
		opts = &completion.Options{}
	}

	var catalog *cove.Catalog
	if opts.Catalog != nil {
		catalog = opts.Catalog
	}

	return &Server{
		client:    client,
		logger:    logger,
		documents: make(map[protocol.DocumentURI]*Document),
		analyzer:  analysis.NewAnalyzer(catalog),
		opts:      opts,
	}
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize")

	if params.RootURI != "" {
		s.workspaceRoot = URIToPath(params.RootURI)
		s.logger.Info("Workspace root", zap.String("root", s.workspaceRoot))
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			HoverProvider: true,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"$", ".", "-", "/", "["},
				ResolveProvider:   false,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "cove-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	return nil
}

// Exit handles the exit notification. The main loop exits after this.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")

	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	doc := &Document{
		URI:     params.TextDocument.URI,
		Version: params.TextDocument.Version,
		Content: params.TextDocument.Text,
	}
	doc.Analysis = s.analyzer.Analyze(URIToPath(doc.URI), []byte(doc.Content))

	// Hold the lock only for the map update; publishing diagnostics is an
	// RPC and the client may call back into us while it is in flight.
	s.mu.Lock()
	s.documents[doc.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(ctx, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Debug("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	var changed *Document

	s.mu.Lock()
	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change.
	if len(params.ContentChanges) > 0 {
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version
		doc.Analysis = s.analyzer.Analyze(URIToPath(doc.URI), []byte(doc.Content))
		changed = doc
	}
	s.mu.Unlock()

	if changed != nil {
		s.publishDiagnostics(ctx, changed)
	}

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Debug("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	return nil
}

// getDocument returns a document by URI (read-locked).
func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]

	return doc, ok
}
