package index_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/narwhal-lang/narwhalc/internal/index"
)

func writeFile(t *testing.T, dir, rel, contents string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
}

func TestLoadBuildsModuleTreeAndGlobals(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.nw", "fn entry() {}\n")
	writeFile(t, root, "util/helpers.nw", "fn g() {}\nconst K = 1;\n")

	idx, err := index.Load(root)
	require.NoError(t, err)

	require.Len(t, idx.Root.Globals, 1, "main.nw contributes to the root module")

	util, ok := idx.Root.Children["util"]
	require.True(t, ok, "expected a 'util' child module for the directory")
	helpers, ok := util.Children["helpers"]
	require.True(t, ok, "expected a 'helpers' child module for helpers.nw")
	require.Len(t, helpers.Globals, 2)
}

// TestLoadSetsVersionPrimitives covers spec §1's versioning-primitives
// non-goal: Index.Version, Global.Updated, and Module.Updated are all set
// once at construction even though nothing in this build ever bumps them
// again.
func TestLoadSetsVersionPrimitives(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.nw", "fn entry() {}\n")
	writeFile(t, root, "util/helpers.nw", "fn g() {}\n")

	idx, err := index.Load(root)
	require.NoError(t, err)

	require.Equal(t, 1, idx.Version)
	require.Equal(t, 1, idx.Root.Updated)

	util, ok := idx.Root.Children["util"]
	require.True(t, ok)
	require.Equal(t, 1, util.Updated)

	require.Len(t, idx.Globals, 2)
	for _, g := range idx.Globals {
		require.Equal(t, 1, g.Updated)
	}
}

func TestLoadRejectsReservedFilename(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.nw", "fn f() {}\n")

	_, err := index.Load(root)
	require.Error(t, err)
}

func TestLoadCollectsParseErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.nw", "fn ( {}\n")

	idx, err := index.Load(root)
	require.NoError(t, err)
	require.NotEmpty(t, idx.Sources[0].ParseErrors)
}
