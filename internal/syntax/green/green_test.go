package green_test

import (
	"testing"

	"github.com/narwhal-lang/narwhalc/internal/syntax/green"
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
)

func TestNodeTextRoundTrips(t *testing.T) {
	t.Parallel()

	cache := green.NewCache()
	lhs := cache.Token(kind.Ident, "a")
	op := cache.Token(kind.Plus, "+")
	rhs := cache.Token(kind.Ident, "b")
	n := cache.Node(kind.ExprInfix, []green.Child{
		green.TokenChild(lhs), green.TokenChild(op), green.TokenChild(rhs),
	})

	if got, want := n.Text(), "a+b"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	if got, want := n.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
}

func TestCacheSharesIdenticalSubtrees(t *testing.T) {
	t.Parallel()

	cache := green.NewCache()
	build := func() *green.Node {
		tok := cache.Token(kind.Int, "0")
		return cache.Node(kind.ExprParen, []green.Child{green.TokenChild(tok)})
	}

	a := build()
	b := build()
	if a != b {
		t.Fatalf("identical subtrees were not shared: %p != %p", a, b)
	}
}

func TestCacheDistinguishesDifferentText(t *testing.T) {
	t.Parallel()

	cache := green.NewCache()
	a := cache.Node(kind.ExprParen, []green.Child{green.TokenChild(cache.Token(kind.Int, "0"))})
	b := cache.Node(kind.ExprParen, []green.Child{green.TokenChild(cache.Token(kind.Int, "1"))})
	if a == b {
		t.Fatal("nodes with different token text were incorrectly shared")
	}
}

func TestNodeChildrenPreserveOrder(t *testing.T) {
	t.Parallel()

	cache := green.NewCache()
	n := cache.Node(kind.Block, []green.Child{
		green.TokenChild(cache.Token(kind.LeftBrace, "{")),
		green.TokenChild(cache.Token(kind.RightBrace, "}")),
	})

	kinds := make([]kind.Kind, n.NumChildren())
	for i, c := range n.Children() {
		kinds[i] = c.Kind()
	}
	want := []kind.Kind{kind.LeftBrace, kind.RightBrace}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("Children()[%d].Kind() = %v, want %v", i, kinds[i], want[i])
		}
	}
}
