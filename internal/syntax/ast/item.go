package ast

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

// Import is `import <path>;`.
type Import struct{ node *red.Node }

func NewImport(n *red.Node) *Import  { return &Import{node: n} }
func (i *Import) Syntax() *red.Node  { return i.node }
func (*Import) isItem()              {}
func (i *Import) Path() (*Path, bool) {
	n, ok := nthNode(i.node, kindIs(kind.Path), 0)
	if !ok {
		return nil, false
	}
	return NewPath(n), true
}

// TypeDef is `type Name { fields... }`.
type TypeDef struct{ node *red.Node }

func NewTypeDef(n *red.Node) *TypeDef { return &TypeDef{node: n} }
func (t *TypeDef) Syntax() *red.Node  { return t.node }
func (*TypeDef) isItem()              {}

func (t *TypeDef) NameToken() (*red.Token, bool) {
	return nthToken(t.node, kind.Ident, 0)
}

func (t *TypeDef) Fields() []*AdtField {
	var out []*AdtField
	for _, n := range allNodes(t.node, kindIs(kind.AdtField)) {
		out = append(out, NewAdtField(n))
	}
	return out
}

// AdtField is one `name: Type` member of a TypeDef.
type AdtField struct{ node *red.Node }

func NewAdtField(n *red.Node) *AdtField { return &AdtField{node: n} }
func (f *AdtField) Syntax() *red.Node   { return f.node }

func (f *AdtField) NameToken() (*red.Token, bool) {
	return nthToken(f.node, kind.Ident, 0)
}

func (f *AdtField) Type() (TypeExpr, bool) {
	n, ok := nthNode(f.node, isTypeExprKind, 0)
	if !ok {
		return nil, false
	}
	return CastTypeExpr(n)
}
