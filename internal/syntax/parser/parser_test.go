package parser_test

import (
	"os"
	"testing"

	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/parser"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
	"github.com/narwhal-lang/narwhalc/internal/testutil"
)

func TestParseCorpusValidFilesHaveNoDiagnostics(t *testing.T) {
	t.Parallel()

	files, err := testutil.CorpusFiles("valid")
	if err != nil {
		t.Fatalf("CorpusFiles: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected at least one valid corpus file")
	}

	for _, path := range files {
		path := path
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			res := parser.Parse(src)
			if len(res.Diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics for %s: %+v", path, res.Diagnostics)
			}
		})
	}
}

func TestParseRoundTripsEveryByte(t *testing.T) {
	t.Parallel()

	src := `// a comment
import foo.bar;

type Point {
    x: i32,
    y: i32,
}

const LIMIT: i32 = 10;

fn add(a: i32, b: i32) -> i32 {
    let total = a + b * 2;
    if total > LIMIT {
        return LIMIT;
    } else {
        return total;
    }
}
`
	res := parser.Parse([]byte(src))
	if got := res.Tree.Text(); got != src {
		t.Fatalf("round trip mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, src)
	}
}

func TestParseFileTopLevelItems(t *testing.T) {
	t.Parallel()

	res := parser.Parse([]byte("import a.b;\ntype T { f: i32 }\nconst C = 1;\nfn f() {}\n"))
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	root := red.NewRoot(res.Tree)
	if root.Kind() != kind.File {
		t.Fatalf("root kind = %v, want File", root.Kind())
	}

	items := root.NodeChildren()
	wantKinds := []kind.Kind{kind.Import, kind.TypeDef, kind.Constant, kind.Function}
	if len(items) != len(wantKinds) {
		t.Fatalf("items = %v, want %d of %v", items, len(wantKinds), wantKinds)
	}
	for i, want := range wantKinds {
		if items[i].Kind() != want {
			t.Errorf("items[%d].Kind() = %v, want %v", i, items[i].Kind(), want)
		}
	}
}

func TestParseInfixPrecedence(t *testing.T) {
	t.Parallel()

	// a + b * c should parse as ExprInfix(a, +, ExprInfix(b, *, c)), i.e.
	// the outer node's rhs is itself an ExprInfix.
	res := parser.Parse([]byte("const c = a + b * c;"))
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	root := red.NewRoot(res.Tree)
	constNode := root.NodeChildren()[0]
	outerInfix := findFirst(constNode, kind.ExprInfix)
	if outerInfix == nil {
		t.Fatal("no ExprInfix found")
	}
	var inner *red.Node
	for _, child := range outerInfix.NodeChildren() {
		if found := findFirst(child, kind.ExprInfix); found != nil {
			inner = found
		}
	}
	if inner == nil {
		t.Fatal("expected a nested ExprInfix for higher-precedence '*'")
	}
}

func TestParseAssignmentRightAssociative(t *testing.T) {
	t.Parallel()

	res := parser.Parse([]byte("fn f() { a = b = c; }"))
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	root := red.NewRoot(res.Tree)
	assign := findFirst(root, kind.ExprAssign)
	if assign == nil {
		t.Fatal("no ExprAssign found")
	}
	var nested *red.Node
	for _, child := range assign.NodeChildren() {
		if found := findFirst(child, kind.ExprAssign); found != nil {
			nested = found
		}
	}
	if nested == nil {
		t.Fatal("expected assignment to be right-associative (nested ExprAssign)")
	}
}

func TestParseRecoversFromBadToken(t *testing.T) {
	t.Parallel()

	res := parser.Parse([]byte("fn f() {} @@@ fn g() {}"))
	if len(res.Diagnostics) == 0 {
		t.Fatal("expected at least one diagnostic for the stray tokens")
	}

	root := red.NewRoot(res.Tree)
	items := root.NodeChildren()
	var fns int
	for _, it := range items {
		if it.Kind() == kind.Function {
			fns++
		}
	}
	if fns != 2 {
		t.Fatalf("found %d Function nodes, want 2 (parser should recover and keep parsing)", fns)
	}
}

func findFirst(n *red.Node, k kind.Kind) *red.Node {
	if n.Kind() == k {
		return n
	}
	for _, child := range n.NodeChildren() {
		if found := findFirst(child, k); found != nil {
			return found
		}
	}
	return nil
}
