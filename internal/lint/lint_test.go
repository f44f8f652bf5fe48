package lint_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/narwhal-lang/narwhalc/internal/index"
	"github.com/narwhal-lang/narwhalc/internal/lint"
)

func loadSource(t *testing.T, contents string) *index.Index {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.nw"), []byte(contents), 0o644))
	idx, err := index.Load(root)
	require.NoError(t, err)
	return idx
}

func TestDuplicateGlobalNameRuleFlagsSecondDeclaration(t *testing.T) {
	idx := loadSource(t, "fn f() {\n  return 1;\n}\nfn f() {\n  return 2;\n}\n")

	diags, err := lint.NewDefaultRunner().Run(context.Background(), idx)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "duplicate global")
	require.Len(t, diags[0].Labels, 1)
}

func TestDuplicateGlobalNameRuleAllowsDistinctNames(t *testing.T) {
	idx := loadSource(t, "fn f() {\n  return 1;\n}\nfn g() {\n  return 2;\n}\n")

	diags, err := lint.NewDefaultRunner().Run(context.Background(), idx)
	require.NoError(t, err)
	require.Empty(t, diags)
}

func TestSortDiagnosticsOrdersByLocation(t *testing.T) {
	idx := loadSource(t, "fn f() {\n  return 1;\n}\nfn f() {\n  return 2;\n}\nfn f() {\n  return 3;\n}\n")

	diags, err := lint.NewDefaultRunner().Run(context.Background(), idx)
	require.NoError(t, err)
	require.Len(t, diags, 2)
	require.Less(t, diags[0].Location.Start, diags[1].Location.Start)
}
