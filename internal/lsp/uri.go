package lsp

import (
	"net/url"
	"path/filepath"

	"github.com/narwhal-lang/narwhalc/internal/index"
	itext "github.com/narwhal-lang/narwhalc/internal/text"
)

// uriToPath converts a file:// URI (as sent by every editor LSP client) to
// a local filesystem path. Non-file URIs are rejected since narwhalc only
// understands on-disk projects.
func uriToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", errUnsupportedScheme(u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

// pathToURI is uriToPath's inverse, used to report definition locations.
func pathToURI(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

type errUnsupportedScheme string

func (e errUnsupportedScheme) Error() string {
	return "lsp: unsupported URI scheme " + string(e)
}

func newLineIndexForSource(src *index.Source) *itext.LineIndex {
	return itext.NewLineIndex(src.Contents)
}
