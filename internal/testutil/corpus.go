// Package testutil provides shared helpers for narwhalc's tests: locating
// the repository root and discovering .nw fixture files under testdata/,
// used by the parser corpus suite and the formatter golden suite.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// CorpusFiles returns sorted .nw files under testdata/corpus/<setName>.
// "valid" holds files expected to parse with zero diagnostics; a future
// "invalid" set would hold files exercising parser error recovery.
func CorpusFiles(setName string) ([]string, error) {
	root, err := RepoRoot()
	if err != nil {
		return nil, err
	}
	setDir := filepath.Join(root, "testdata", "corpus", setName)
	entries, err := os.ReadDir(setDir)
	if err != nil {
		return nil, fmt.Errorf("read corpus set %q: %w", setName, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".nw" {
			continue
		}
		out = append(out, filepath.Join(setDir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
