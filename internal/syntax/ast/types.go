package ast

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

// TypeExpr is the enum-node alternation over type-position syntax
// (gen.Enums["TypeExpr"]): a function type or a path to a declared type.
type TypeExpr interface {
	Node
	isTypeExpr()
}

func isTypeExprKind(k kind.Kind) bool {
	switch k {
	case kind.TypeFunction, kind.Path:
		return true
	default:
		return false
	}
}

func CastTypeExpr(n *red.Node) (TypeExpr, bool) {
	switch n.Kind() {
	case kind.TypeFunction:
		return NewTypeFunction(n), true
	case kind.Path:
		return NewPath(n), true
	default:
		return nil, false
	}
}

// TypeFunction is `fn(T, U) -> R` in type position.
type TypeFunction struct{ node *red.Node }

func NewTypeFunction(n *red.Node) *TypeFunction { return &TypeFunction{node: n} }
func (t *TypeFunction) Syntax() *red.Node       { return t.node }
func (*TypeFunction) isTypeExpr()               {}

func (t *TypeFunction) ParamTypes() []*TypeList {
	var out []*TypeList
	for _, n := range allNodes(t.node, kindIs(kind.TypeList)) {
		out = append(out, NewTypeList(n))
	}
	return out
}

func (t *TypeFunction) ReturnType() (TypeExpr, bool) {
	n, ok := nthNode(t.node, isTypeExprKind, 0)
	if !ok {
		return nil, false
	}
	return CastTypeExpr(n)
}

// TypeList wraps one element of a TypeFunction's parameter-type list.
type TypeList struct{ node *red.Node }

func NewTypeList(n *red.Node) *TypeList { return &TypeList{node: n} }
func (t *TypeList) Syntax() *red.Node   { return t.node }

func (t *TypeList) Type() (TypeExpr, bool) {
	n, ok := nthNode(t.node, isTypeExprKind, 0)
	if !ok {
		return nil, false
	}
	return CastTypeExpr(n)
}

// TypeAscription is the `: Type` suffix on a let/const binding.
type TypeAscription struct{ node *red.Node }

func NewTypeAscription(n *red.Node) *TypeAscription { return &TypeAscription{node: n} }
func (t *TypeAscription) Syntax() *red.Node         { return t.node }

func (t *TypeAscription) Type() (TypeExpr, bool) {
	n, ok := nthNode(t.node, isTypeExprKind, 0)
	if !ok {
		return nil, false
	}
	return CastTypeExpr(n)
}

// Path is a (possibly `package`-qualified) dotted sequence of
// identifiers, used both as an import target and as a type/value
// reference.
type Path struct{ node *red.Node }

func NewPath(n *red.Node) *Path   { return &Path{node: n} }
func (p *Path) Syntax() *red.Node { return p.node }
func (*Path) isTypeExpr()         {}
func (*Path) isExpr()             {}

// Package returns the leading `package` keyword token, if the path is
// absolute (spec §4.4 path resolution).
func (p *Path) Package() (*red.Token, bool) {
	return nthToken(p.node, kind.PackageKw, 0)
}

func (p *Path) Components() []*PathComponent {
	var out []*PathComponent
	for _, n := range allNodes(p.node, kindIs(kind.PathComponent)) {
		out = append(out, NewPathComponent(n))
	}
	return out
}

// PathComponent is one dotted segment of a Path.
type PathComponent struct{ node *red.Node }

func NewPathComponent(n *red.Node) *PathComponent { return &PathComponent{node: n} }
func (c *PathComponent) Syntax() *red.Node         { return c.node }

func (c *PathComponent) NameToken() (*red.Token, bool) {
	return nthToken(c.node, kind.Ident, 0)
}
