package ast

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

// Signature is a function's name, parameter list, and optional return type.
type Signature struct{ node *red.Node }

func NewSignature(n *red.Node) *Signature { return &Signature{node: n} }
func (s *Signature) Syntax() *red.Node    { return s.node }

func (s *Signature) NameToken() (*red.Token, bool) {
	return nthToken(s.node, kind.Ident, 0)
}

func (s *Signature) Params() []*ParamList {
	var out []*ParamList
	for _, n := range allNodes(s.node, kindIs(kind.ParamList)) {
		out = append(out, NewParamList(n))
	}
	return out
}

func (s *Signature) ReturnType() (TypeExpr, bool) {
	n, ok := nthNode(s.node, isTypeExprKind, 0)
	if !ok {
		return nil, false
	}
	return CastTypeExpr(n)
}

// ParamList wraps one `name: Type` (or bare `name`) function parameter.
type ParamList struct{ node *red.Node }

func NewParamList(n *red.Node) *ParamList { return &ParamList{node: n} }
func (p *ParamList) Syntax() *red.Node    { return p.node }

func (p *ParamList) NameToken() (*red.Token, bool) {
	return nthToken(p.node, kind.Ident, 0)
}

func (p *ParamList) Type() (TypeExpr, bool) {
	n, ok := nthNode(p.node, isTypeExprKind, 0)
	if !ok {
		return nil, false
	}
	return CastTypeExpr(n)
}

// Function is a top-level `fn name(params) -> R { ... }` item. Block is
// absent for a declaration-only signature: the parser accepts `;` in
// place of the body (`fn f();`) without a diagnostic, so the accessor
// is optional.
type Function struct{ node *red.Node }

func NewFunction(n *red.Node) *Function { return &Function{node: n} }
func (f *Function) Syntax() *red.Node   { return f.node }
func (*Function) isItem()               {}
func (*Function) isStmt()               {}

func (f *Function) Signature() (*Signature, bool) {
	n, ok := nthNode(f.node, kindIs(kind.Signature), 0)
	if !ok {
		return nil, false
	}
	return NewSignature(n), true
}

func (f *Function) Block() (*Block, bool) {
	n, ok := nthNode(f.node, kindIs(kind.Block), 0)
	if !ok {
		return nil, false
	}
	return NewBlock(n), true
}

// Constant is a top-level or block-local `const name: T = expr;`.
type Constant struct{ node *red.Node }

func NewConstant(n *red.Node) *Constant { return &Constant{node: n} }
func (c *Constant) Syntax() *red.Node   { return c.node }
func (*Constant) isItem()               {}
func (*Constant) isStmt()               {}

func (c *Constant) NameToken() (*red.Token, bool) {
	return nthToken(c.node, kind.Ident, 0)
}

func (c *Constant) Expr() (Expr, bool) { return nthExpr(c.node, 0) }

func (c *Constant) TypeAscription() (*TypeAscription, bool) {
	n, ok := nthNode(c.node, kindIs(kind.TypeAscription), 0)
	if !ok {
		return nil, false
	}
	return NewTypeAscription(n), true
}
