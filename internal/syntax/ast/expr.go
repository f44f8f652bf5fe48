package ast

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

// Expr is the enum-node alternation over expression forms
// (gen.Enums["Expr"]). Most alternatives are struct-nodes; Atom is a
// bare literal token (true/false/int/float/char/string) that sits
// directly in an expression position with no wrapping node, mirroring
// how original_source's grammar treats atoms as a token-level
// alternative rather than a one-field struct.
type Expr interface {
	isExpr()
}

func isExprNodeKind(k kind.Kind) bool {
	switch k {
	case kind.Block, kind.ExprIf, kind.ExprParen, kind.ExprPrefix, kind.ExprInfix,
		kind.ExprAssign, kind.ExprCall, kind.ExprClosure, kind.Path:
		return true
	default:
		return false
	}
}

func isExprKind(k kind.Kind) bool {
	return isExprNodeKind(k) || isAtomKind(k)
}

func isAtomKind(k kind.Kind) bool {
	switch k {
	case kind.TrueKw, kind.FalseKw, kind.Int, kind.Float, kind.Char, kind.String:
		return true
	default:
		return false
	}
}

// CastExpr wraps a child node already known to be in expression position.
// It does not handle Atom, since an atom is a token, not a node; use
// nthExpr (which scans both) from a struct-node accessor instead.
func CastExpr(n *red.Node) (Expr, bool) {
	switch n.Kind() {
	case kind.Block:
		return NewBlock(n), true
	case kind.ExprIf:
		return NewExprIf(n), true
	case kind.ExprParen:
		return NewExprParen(n), true
	case kind.ExprPrefix:
		return NewExprPrefix(n), true
	case kind.ExprInfix:
		return NewExprInfix(n), true
	case kind.ExprAssign:
		return NewExprAssign(n), true
	case kind.ExprCall:
		return NewExprCall(n), true
	case kind.ExprClosure:
		return NewExprClosure(n), true
	case kind.Path:
		return NewPath(n), true
	default:
		return nil, false
	}
}

// nthExpr returns the idx'th (0-based) direct child of n that is in
// expression position, whether that child is a struct-node or a bare
// Atom token.
func nthExpr(n *red.Node, idx int) (Expr, bool) {
	count := 0
	for _, el := range n.Children() {
		switch {
		case el.Node != nil && isExprNodeKind(el.Node.Kind()):
			if count == idx {
				return CastExpr(el.Node)
			}
			count++
		case el.Token != nil && isAtomKind(el.Token.Kind()):
			if count == idx {
				return AtomLit{tok: el.Token}, true
			}
			count++
		}
	}
	return nil, false
}

// AtomLit is a literal token occupying an expression position.
type AtomLit struct{ tok *red.Token }

func (AtomLit) isExpr() {}

func (a AtomLit) Token() *red.Token { return a.tok }
func (a AtomLit) Kind() kind.Kind   { return a.tok.Kind() }
func (a AtomLit) Text() string      { return a.tok.Text() }

// ExprElse is the enum-node alternation over what follows an `else`
// (gen.Enums["ExprElse"]): a plain block, or another if-expression for
// an `else if` chain.
type ExprElse interface {
	isExprElse()
}

func isExprElseKind(k kind.Kind) bool {
	return k == kind.Block || k == kind.ExprIf
}

func CastExprElse(n *red.Node) (ExprElse, bool) {
	switch n.Kind() {
	case kind.Block:
		return NewBlock(n), true
	case kind.ExprIf:
		return NewExprIf(n), true
	default:
		return nil, false
	}
}

// ExprIf is `if expr { ... } [else ...]`.
type ExprIf struct{ node *red.Node }

func NewExprIf(n *red.Node) *ExprIf { return &ExprIf{node: n} }
func (e *ExprIf) Syntax() *red.Node { return e.node }
func (*ExprIf) isExpr()             {}
func (*ExprIf) isExprElse()         {}

func (e *ExprIf) Expr() (Expr, bool) { return nthExpr(e.node, 0) }

func (e *ExprIf) ThenBranch() (*Block, bool) {
	n, ok := nthNode(e.node, kindIs(kind.Block), 0)
	if !ok {
		return nil, false
	}
	return NewBlock(n), true
}

func (e *ExprIf) ElseBranch() (ExprElse, bool) {
	n, ok := nthNode(e.node, isExprElseKind, 0)
	if !ok {
		return nil, false
	}
	return CastExprElse(n)
}

// ExprParen is a parenthesized expression, kept in the tree (rather than
// collapsed) so trivia and source text round-trip exactly.
type ExprParen struct{ node *red.Node }

func NewExprParen(n *red.Node) *ExprParen { return &ExprParen{node: n} }
func (e *ExprParen) Syntax() *red.Node    { return e.node }
func (*ExprParen) isExpr()                {}

func (e *ExprParen) Expr() (Expr, bool) { return nthExpr(e.node, 0) }

// ExprPrefix is a unary `-expr` or `not expr`.
type ExprPrefix struct{ node *red.Node }

func NewExprPrefix(n *red.Node) *ExprPrefix { return &ExprPrefix{node: n} }
func (e *ExprPrefix) Syntax() *red.Node     { return e.node }
func (*ExprPrefix) isExpr()                 {}

func (e *ExprPrefix) Op() (PrefixOp, bool) {
	tok, ok := firstTokenAny(e.node, kind.Minus, kind.NotKw)
	if !ok {
		return PrefixOp{}, false
	}
	return PrefixOp{tok: tok}, true
}

func (e *ExprPrefix) Expr() (Expr, bool) { return nthExpr(e.node, 0) }

// PrefixOp is the operator token of an ExprPrefix.
type PrefixOp struct{ tok *red.Token }

func (p PrefixOp) Kind() kind.Kind { return p.tok.Kind() }
func (p PrefixOp) Token() *red.Token { return p.tok }

// ExprInfix is a binary operator expression.
type ExprInfix struct{ node *red.Node }

func NewExprInfix(n *red.Node) *ExprInfix { return &ExprInfix{node: n} }
func (e *ExprInfix) Syntax() *red.Node    { return e.node }
func (*ExprInfix) isExpr()                {}

func (e *ExprInfix) Lhs() (Expr, bool) { return nthExpr(e.node, 0) }
func (e *ExprInfix) Rhs() (Expr, bool) { return nthExpr(e.node, 1) }

func (e *ExprInfix) Op() (InfixOp, bool) {
	tok, ok := firstTokenAny(e.node, infixOpKinds...)
	if !ok {
		return InfixOp{}, false
	}
	return InfixOp{tok: tok}, true
}

var infixOpKinds = []kind.Kind{
	kind.Plus, kind.Minus, kind.Star, kind.Slash, kind.Percent,
	kind.Eq, kind.Ne, kind.Lt, kind.Le, kind.Gt, kind.Ge, kind.AndKw, kind.OrKw,
}

// InfixOp is the operator token of an ExprInfix.
type InfixOp struct{ tok *red.Token }

func (o InfixOp) Kind() kind.Kind   { return o.tok.Kind() }
func (o InfixOp) Token() *red.Token { return o.tok }

// ExprAssign is `lhs op= rhs` for any assignment operator, including
// plain `=`.
type ExprAssign struct{ node *red.Node }

func NewExprAssign(n *red.Node) *ExprAssign { return &ExprAssign{node: n} }
func (e *ExprAssign) Syntax() *red.Node     { return e.node }
func (*ExprAssign) isExpr()                 {}

func (e *ExprAssign) Lhs() (Expr, bool) { return nthExpr(e.node, 0) }
func (e *ExprAssign) Rhs() (Expr, bool) { return nthExpr(e.node, 1) }

func (e *ExprAssign) Op() (AssignOp, bool) {
	tok, ok := firstTokenAny(e.node, assignOpKinds...)
	if !ok {
		return AssignOp{}, false
	}
	return AssignOp{tok: tok}, true
}

var assignOpKinds = []kind.Kind{
	kind.Equals, kind.PlusEquals, kind.MinusEquals, kind.StarEquals, kind.SlashEquals, kind.PercentEquals,
}

// AssignOp is the operator token of an ExprAssign.
type AssignOp struct{ tok *red.Token }

func (o AssignOp) Kind() kind.Kind   { return o.tok.Kind() }
func (o AssignOp) Token() *red.Token { return o.tok }

// ExprCall is `callee(args...)`.
type ExprCall struct{ node *red.Node }

func NewExprCall(n *red.Node) *ExprCall { return &ExprCall{node: n} }
func (e *ExprCall) Syntax() *red.Node   { return e.node }
func (*ExprCall) isExpr()               {}

func (e *ExprCall) Callee() (Expr, bool) { return nthExpr(e.node, 0) }

func (e *ExprCall) Args() []*ExprList {
	var out []*ExprList
	for _, n := range allNodes(e.node, kindIs(kind.ExprList)) {
		out = append(out, NewExprList(n))
	}
	return out
}

// ExprList wraps one argument of an ExprCall's argument list.
type ExprList struct{ node *red.Node }

func NewExprList(n *red.Node) *ExprList { return &ExprList{node: n} }
func (e *ExprList) Syntax() *red.Node   { return e.node }

func (e *ExprList) Expr() (Expr, bool) { return nthExpr(e.node, 0) }

// ExprClosure is `fn(params) -> R expr` (spec Open Question: closures
// lower to a placeholder IR node, see DESIGN.md).
type ExprClosure struct{ node *red.Node }

func NewExprClosure(n *red.Node) *ExprClosure { return &ExprClosure{node: n} }
func (e *ExprClosure) Syntax() *red.Node      { return e.node }
func (*ExprClosure) isExpr()                  {}

func (e *ExprClosure) Params() []*ParamList {
	var out []*ParamList
	for _, n := range allNodes(e.node, kindIs(kind.ParamList)) {
		out = append(out, NewParamList(n))
	}
	return out
}

func (e *ExprClosure) ReturnType() (TypeExpr, bool) {
	n, ok := nthNode(e.node, isTypeExprKind, 0)
	if !ok {
		return nil, false
	}
	return CastTypeExpr(n)
}

func (e *ExprClosure) Expr() (Expr, bool) { return nthExpr(e.node, 0) }

// ErrorTree wraps a span the parser could not assign to any production;
// its children are whatever tokens were skipped during recovery.
type ErrorTree struct{ node *red.Node }

func NewErrorTree(n *red.Node) *ErrorTree { return &ErrorTree{node: n} }
func (e *ErrorTree) Syntax() *red.Node    { return e.node }

func firstTokenAny(n *red.Node, ks ...kind.Kind) (*red.Token, bool) {
	accept := kindIsAny(ks...)
	for _, el := range n.Children() {
		if el.Token != nil && accept(el.Token.Kind()) {
			return el.Token, true
		}
	}
	return nil, false
}
