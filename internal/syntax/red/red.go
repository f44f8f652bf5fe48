// Package red implements the position-bearing view over a green.Node tree
// (spec §3 "Red node/token"). A red node wraps a green node together with
// its absolute start offset and a pointer back to its parent red node;
// both are computed lazily, as a reader descends, rather than stored in
// the (shared, position-free) green tree itself.
package red

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/green"
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

// Node is a red (positioned) view of a green.Node.
type Node struct {
	green  *green.Node
	parent *Node
	start  text.ByteOffset

	// indexInParent is this node's index in parent's green children, or
	// -1 at the tree root. It lets ChildAt recompute a child's red
	// wrapper without the parent caching every child eagerly.
	indexInParent int
}

// NewRoot wraps g as a root Node starting at offset 0.
func NewRoot(g *green.Node) *Node {
	return &Node{green: g, indexInParent: -1}
}

func (n *Node) Kind() kind.Kind    { return n.green.Kind() }
func (n *Node) Green() *green.Node { return n.green }
func (n *Node) Parent() *Node      { return n.parent }
func (n *Node) Start() text.ByteOffset { return n.start }
func (n *Node) End() text.ByteOffset   { return n.start + text.ByteOffset(n.green.Len()) }
func (n *Node) Span() text.Span        { return text.Span{Start: n.Start(), End: n.End()} }

// Token is a red (positioned) view of a green.Token.
type Token struct {
	green  *green.Token
	parent *Node
	start  text.ByteOffset
}

func (t *Token) Kind() kind.Kind        { return t.green.Kind() }
func (t *Token) Text() string           { return t.green.Text() }
func (t *Token) Green() *green.Token    { return t.green }
func (t *Token) Parent() *Node          { return t.parent }
func (t *Token) Start() text.ByteOffset { return t.start }
func (t *Token) End() text.ByteOffset   { return t.start + text.ByteOffset(t.green.Len()) }
func (t *Token) Span() text.Span        { return text.Span{Start: t.Start(), End: t.End()} }

// Element is exactly one of a child Node or a child Token, mirroring
// green.Child but carrying absolute position.
type Element struct {
	Node  *Node
	Token *Token
}

func (e Element) Kind() kind.Kind {
	if e.Node != nil {
		return e.Node.Kind()
	}
	return e.Token.Kind()
}

func (e Element) Span() text.Span {
	if e.Node != nil {
		return e.Node.Span()
	}
	return e.Token.Span()
}

// Children returns n's direct children as positioned Elements, computing
// each one's absolute start offset from its preceding siblings' lengths.
func (n *Node) Children() []Element {
	children := n.green.Children()
	out := make([]Element, len(children))
	offset := n.start
	for i, c := range children {
		out[i] = n.childAt(i, c, offset)
		offset += text.ByteOffset(c.Len())
	}
	return out
}

// ChildAt returns the i'th direct child as a positioned Element without
// materializing every sibling, for callers (ast accessors) that only
// need one child.
func (n *Node) ChildAt(i int) (Element, bool) {
	children := n.green.Children()
	if i < 0 || i >= len(children) {
		return Element{}, false
	}
	offset := n.start
	for j := 0; j < i; j++ {
		offset += text.ByteOffset(children[j].Len())
	}
	return n.childAt(i, children[i], offset), true
}

func (n *Node) childAt(i int, c green.Child, offset text.ByteOffset) Element {
	if c.Node != nil {
		return Element{Node: &Node{green: c.Node, parent: n, start: offset, indexInParent: i}}
	}
	return Element{Token: &Token{green: c.Token, parent: n, start: offset}}
}

// Tokens returns every token descending from n, in source order, the
// flattening a lossless reprint (or an AST accessor scanning for the
// first token of a given kind) walks over.
func (n *Node) Tokens() []*Token {
	var out []*Token
	for _, el := range n.Children() {
		if el.Token != nil {
			out = append(out, el.Token)
		} else {
			out = append(out, el.Node.Tokens()...)
		}
	}
	return out
}

// NodeChildren returns only the child Elements that are nodes, preserving
// order — the shape every *_list accessor and enum-node cast walks over.
func (n *Node) NodeChildren() []*Node {
	var out []*Node
	for _, el := range n.Children() {
		if el.Node != nil {
			out = append(out, el.Node)
		}
	}
	return out
}
