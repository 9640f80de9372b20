package lsp

import (
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// URIToPath converts a document URI to a file system path. Non-file URIs
// come back verbatim.
func URIToPath(docURI protocol.DocumentURI) string {
	if !strings.HasPrefix(string(docURI), "file://") {
		return string(docURI)
	}

	return uri.URI(docURI).Filename()
}

// PathToURI converts a file system path to a file URI.
func PathToURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI(uri.File(path))
}
