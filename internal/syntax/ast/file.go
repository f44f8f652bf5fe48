package ast

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

// File is the root struct-node: a sequence of top-level Items.
type File struct{ node *red.Node }

func NewFile(n *red.Node) *File { return &File{node: n} }
func (f *File) Syntax() *red.Node { return f.node }

// Items returns every top-level item in source order.
func (f *File) Items() []Item {
	var out []Item
	for _, n := range allNodes(f.node, isItemKind) {
		if item, ok := CastItem(n); ok {
			out = append(out, item)
		}
	}
	return out
}

// Item is the enum-node alternation over the four kinds of top-level
// declaration (gen.Enums["Item"]).
type Item interface {
	Node
	isItem()
}

func isItemKind(k kind.Kind) bool {
	switch k {
	case kind.Import, kind.TypeDef, kind.Function, kind.Constant:
		return true
	default:
		return false
	}
}

// CastItem wraps n in the Item alternative matching its kind, or returns
// ok=false if n's kind is not a member of the Item alternation.
func CastItem(n *red.Node) (Item, bool) {
	switch n.Kind() {
	case kind.Import:
		return NewImport(n), true
	case kind.TypeDef:
		return NewTypeDef(n), true
	case kind.Function:
		return NewFunction(n), true
	case kind.Constant:
		return NewConstant(n), true
	default:
		return nil, false
	}
}
