package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// Handler adapts the server to a jsonrpc2 connection, dispatching the
// methods it implements and answering everything else with MethodNotFound.
func Handler(s *Server) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		switch req.Method() {
		case protocol.MethodInitialize:
			var params protocol.InitializeParams
			if err := unmarshalParams(req, &params); err != nil {
				return reply(ctx, nil, err)
			}

			result, err := s.Initialize(ctx, &params)

			return reply(ctx, result, err)

		case protocol.MethodInitialized:
			var params protocol.InitializedParams
			if err := unmarshalParams(req, &params); err != nil {
				return reply(ctx, nil, err)
			}

			return reply(ctx, nil, s.Initialized(ctx, &params))

		case protocol.MethodShutdown:
			return reply(ctx, nil, s.Shutdown(ctx))

		case protocol.MethodExit:
			return reply(ctx, nil, s.Exit(ctx))

		case protocol.MethodTextDocumentDidOpen:
			var params protocol.DidOpenTextDocumentParams
			if err := unmarshalParams(req, &params); err != nil {
				return reply(ctx, nil, err)
			}

			return reply(ctx, nil, s.DidOpen(ctx, &params))

		case protocol.MethodTextDocumentDidChange:
			var params protocol.DidChangeTextDocumentParams
			if err := unmarshalParams(req, &params); err != nil {
				return reply(ctx, nil, err)
			}

			return reply(ctx, nil, s.DidChange(ctx, &params))

		case protocol.MethodTextDocumentDidClose:
			var params protocol.DidCloseTextDocumentParams
			if err := unmarshalParams(req, &params); err != nil {
				return reply(ctx, nil, err)
			}

			return reply(ctx, nil, s.DidClose(ctx, &params))

		case protocol.MethodTextDocumentDidSave:
			var params protocol.DidSaveTextDocumentParams
			if err := unmarshalParams(req, &params); err != nil {
				return reply(ctx, nil, err)
			}

			return reply(ctx, nil, s.DidSave(ctx, &params))

		case protocol.MethodTextDocumentCompletion:
			var params protocol.CompletionParams
			if err := unmarshalParams(req, &params); err != nil {
				return reply(ctx, nil, err)
			}

			result, err := s.Completion(ctx, &params)

			return reply(ctx, result, err)

		case protocol.MethodTextDocumentHover:
			var params protocol.HoverParams
			if err := unmarshalParams(req, &params); err != nil {
				return reply(ctx, nil, err)
			}

			result, err := s.Hover(ctx, &params)

			return reply(ctx, result, err)

		default:
			return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
		}
	}
}

func unmarshalParams(req jsonrpc2.Request, v any) error {
	if len(req.Params()) == 0 {
		return nil
	}

	if err := json.Unmarshal(req.Params(), v); err != nil {
		return fmt.Errorf("%w: %s", jsonrpc2.ErrParse, err)
	}

	return nil
}
