// Package green implements the immutable, structurally-shared syntax tree
// layer (spec §3 "Green node", §4.1). A green node holds only a kind and
// an ordered list of children; it carries no absolute position, which is
// what lets identical subtrees (the same kind with the same children) be
// shared rather than duplicated. Absolute positions are reconstructed on
// demand by internal/syntax/red.
//
// There is no off-the-shelf green/red tree library in the retrieval pack
// (rowan and cstree are Rust-only); this package is grounded directly on
// original_source's use of cstree, which has exactly this shape — a
// token carries a kind and owned text, a node carries a kind and a child
// list, and a node cache deduplicates by structural equality.
package green

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
)

// Token is an immutable leaf: a kind plus the exact source text it
// covers (so trivia and error tokens round-trip byte for byte).
type Token struct {
	kind kind.Kind
	text string
}

// NewToken constructs a Token. Tokens are not deduplicated: two tokens of
// the same kind almost never share identical text, and interning would
// cost more than it saves.
func NewToken(k kind.Kind, text string) *Token {
	return &Token{kind: k, text: text}
}

func (t *Token) Kind() kind.Kind { return t.kind }
func (t *Token) Text() string    { return t.text }
func (t *Token) Len() int        { return len(t.text) }

// Child is exactly one of Node or Token.
type Child struct {
	Node  *Node
	Token *Token
}

func NodeChild(n *Node) Child   { return Child{Node: n} }
func TokenChild(t *Token) Child { return Child{Token: t} }

// Kind returns the kind of whichever alternative is set.
func (c Child) Kind() kind.Kind {
	if c.Node != nil {
		return c.Node.Kind()
	}
	return c.Token.Kind()
}

// Len returns the text length covered by whichever alternative is set.
func (c Child) Len() int {
	if c.Node != nil {
		return c.Node.Len()
	}
	return c.Token.Len()
}

// Node is an immutable interior node: a kind and an ordered child list.
// Node carries its total text length so red wrappers can compute child
// offsets without re-walking the whole subtree on every step.
type Node struct {
	kind     kind.Kind
	children []Child
	textLen  int
}

func newNode(k kind.Kind, children []Child) *Node {
	n := &Node{kind: k, children: children}
	for _, c := range children {
		n.textLen += c.Len()
	}
	return n
}

func (n *Node) Kind() kind.Kind   { return n.kind }
func (n *Node) Children() []Child { return n.children }
func (n *Node) Len() int          { return n.textLen }

// NumChildren reports the number of direct children.
func (n *Node) NumChildren() int { return len(n.children) }

// Text reconstructs this subtree's exact source text by concatenating
// every descendant token's text in order. Used by tests and by the
// formatter's trivia-preserving reprint.
func (n *Node) Text() string {
	var sb []byte
	n.appendText(&sb)
	return string(sb)
}

func (n *Node) appendText(sb *[]byte) {
	for _, c := range n.children {
		if c.Token != nil {
			*sb = append(*sb, c.Token.Text()...)
		} else {
			c.Node.appendText(sb)
		}
	}
}
