package parser

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/green"
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
)

// builder is a rowan-style green tree builder: a stack of open node
// frames, each accumulating its own children, with checkpoint support
// for retroactively wrapping already-pushed siblings in a new parent
// node (used for left-recursive call/infix/assignment parsing). This is
// the Go shape of original_source's cstree-backed builder wrapper in
// parser.rs (start_node/start_node_at/finish_node/checkpoint).
type builder struct {
	cache *green.Cache
	stack []frame
	root  *green.Node
}

type frame struct {
	kind     kind.Kind
	children []green.Child
}

// Checkpoint marks a position within the currently open node's child
// list that a later startNodeAt call can retroactively wrap.
type Checkpoint int

func newBuilder(cache *green.Cache) *builder {
	return &builder{cache: cache}
}

func (b *builder) startNode(k kind.Kind) {
	b.stack = append(b.stack, frame{kind: k})
}

// checkpoint captures the current top frame's child count.
func (b *builder) checkpoint() Checkpoint {
	top := &b.stack[len(b.stack)-1]
	return Checkpoint(len(top.children))
}

// startNodeAt opens a new node of kind k that takes ownership of every
// child the top frame has accumulated since cp, wrapping them inside the
// new node. Used when a prefix parse (an atom, a path) turns out, after
// the fact, to be the left operand of a call or infix/assignment
// expression.
func (b *builder) startNodeAt(cp Checkpoint, k kind.Kind) {
	top := &b.stack[len(b.stack)-1]
	taken := append([]green.Child(nil), top.children[cp:]...)
	top.children = top.children[:cp]
	b.stack = append(b.stack, frame{kind: k, children: taken})
}

func (b *builder) finishNode() {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	node := b.cache.Node(top.kind, top.children)
	if len(b.stack) == 0 {
		b.root = node
		return
	}
	parent := &b.stack[len(b.stack)-1]
	parent.children = append(parent.children, green.NodeChild(node))
}

func (b *builder) token(k kind.Kind, text string) {
	top := &b.stack[len(b.stack)-1]
	top.children = append(top.children, green.TokenChild(b.cache.Token(k, text)))
}

// finish completes the build, returning the root node. The caller must
// have closed every startNode with a matching finishNode first.
func (b *builder) finish() *green.Node {
	return b.root
}
