package lsp

// DefaultServerCapabilities returns narwhalc's LSP capability set: document
// sync, whole-document formatting, hover, and go-to-definition. Symbols,
// folding, selection ranges, semantic tokens, and range formatting are out
// of scope.
func DefaultServerCapabilities() ServerCapabilities {
	return ServerCapabilities{
		TextDocumentSync: TextDocumentSyncOptions{
			OpenClose: true,
			Change:    TextDocumentSyncKindFull,
		},
		DocumentFormattingProvider: true,
		HoverProvider:              true,
		DefinitionProvider:         true,
	}
}
