package red_test

import (
	"testing"

	"github.com/narwhal-lang/narwhalc/internal/syntax/green"
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

func buildSample(cache *green.Cache) *green.Node {
	lhs := green.TokenChild(cache.Token(kind.Ident, "a"))
	ws := green.TokenChild(cache.Token(kind.Whitespace, " "))
	op := green.TokenChild(cache.Token(kind.Plus, "+"))
	rhs := green.TokenChild(cache.Token(kind.Ident, "bb"))
	return cache.Node(kind.ExprInfix, []green.Child{lhs, ws, op, ws, rhs})
}

func TestChildrenAbsoluteOffsets(t *testing.T) {
	t.Parallel()

	cache := green.NewCache()
	root := red.NewRoot(buildSample(cache))

	children := root.Children()
	if len(children) != 5 {
		t.Fatalf("len(children) = %d, want 5", len(children))
	}

	want := []struct {
		start, end int
	}{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 6}}
	for i, c := range children {
		if int(c.Span().Start) != want[i].start || int(c.Span().End) != want[i].end {
			t.Errorf("children[%d].Span() = %+v, want {%d %d}", i, c.Span(), want[i].start, want[i].end)
		}
	}
}

func TestParentNavigation(t *testing.T) {
	t.Parallel()

	cache := green.NewCache()
	root := red.NewRoot(buildSample(cache))
	children := root.Children()
	if children[2].Token.Parent() != root {
		t.Fatal("child token's Parent() did not return root")
	}
}

func TestTokensFlattensDescendants(t *testing.T) {
	t.Parallel()

	cache := green.NewCache()
	inner := cache.Node(kind.ExprParen, []green.Child{
		green.TokenChild(cache.Token(kind.LeftParen, "(")),
		green.TokenChild(cache.Token(kind.Ident, "x")),
		green.TokenChild(cache.Token(kind.RightParen, ")")),
	})
	outer := cache.Node(kind.Block, []green.Child{
		green.TokenChild(cache.Token(kind.LeftBrace, "{")),
		green.NodeChild(inner),
		green.TokenChild(cache.Token(kind.RightBrace, "}")),
	})

	root := red.NewRoot(outer)
	toks := root.Tokens()
	if len(toks) != 5 {
		t.Fatalf("len(Tokens()) = %d, want 5", len(toks))
	}
	if toks[2].Text() != "x" || int(toks[2].Start()) != 2 {
		t.Errorf("toks[2] = %q at %d, want \"x\" at 2", toks[2].Text(), toks[2].Start())
	}
}

func TestChildAtMatchesChildren(t *testing.T) {
	t.Parallel()

	cache := green.NewCache()
	root := red.NewRoot(buildSample(cache))
	children := root.Children()

	el, ok := root.ChildAt(3)
	if !ok {
		t.Fatal("ChildAt(3) returned ok=false")
	}
	if el.Span() != children[3].Span() {
		t.Errorf("ChildAt(3) = %+v, want %+v", el.Span(), children[3].Span())
	}
}
