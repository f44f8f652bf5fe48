package ast

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

// Block is a brace-delimited statement sequence; it is also a member of
// the Expr alternation (a block is itself an expression, spec §4.5).
type Block struct{ node *red.Node }

func NewBlock(n *red.Node) *Block { return &Block{node: n} }
func (b *Block) Syntax() *red.Node { return b.node }
func (*Block) isExpr()             {}
func (*Block) isExprElse()         {}

func (b *Block) Stmts() []Stmt {
	var out []Stmt
	for _, n := range allNodes(b.node, isStmtKind) {
		if s, ok := CastStmt(n); ok {
			out = append(out, s)
		}
	}
	return out
}

// Stmt is the enum-node alternation over statement forms
// (gen.Enums["Stmt"]). A bare Semicolon token (the empty statement) has
// no struct-node wrapper and is skipped by CastStmt/Block.Stmts.
type Stmt interface {
	Node
	isStmt()
}

func isStmtKind(k kind.Kind) bool {
	switch k {
	case kind.StmtExpr, kind.StmtLet, kind.StmtLoop, kind.StmtWhile, kind.StmtBreak,
		kind.StmtContinue, kind.StmtReturn, kind.Function, kind.Constant:
		return true
	default:
		return false
	}
}

func CastStmt(n *red.Node) (Stmt, bool) {
	switch n.Kind() {
	case kind.StmtExpr:
		return NewStmtExpr(n), true
	case kind.StmtLet:
		return NewStmtLet(n), true
	case kind.StmtLoop:
		return NewStmtLoop(n), true
	case kind.StmtWhile:
		return NewStmtWhile(n), true
	case kind.StmtBreak:
		return NewStmtBreak(n), true
	case kind.StmtContinue:
		return NewStmtContinue(n), true
	case kind.StmtReturn:
		return NewStmtReturn(n), true
	case kind.Function:
		return NewFunction(n), true
	case kind.Constant:
		return NewConstant(n), true
	default:
		return nil, false
	}
}

// StmtExpr is an expression used as a statement.
type StmtExpr struct{ node *red.Node }

func NewStmtExpr(n *red.Node) *StmtExpr { return &StmtExpr{node: n} }
func (s *StmtExpr) Syntax() *red.Node   { return s.node }
func (*StmtExpr) isStmt()               {}

func (s *StmtExpr) Expr() (Expr, bool) { return nthExpr(s.node, 0) }

// StmtLet is `let name[: Type] [= expr];`.
type StmtLet struct{ node *red.Node }

func NewStmtLet(n *red.Node) *StmtLet { return &StmtLet{node: n} }
func (s *StmtLet) Syntax() *red.Node  { return s.node }
func (*StmtLet) isStmt()              {}

func (s *StmtLet) NameToken() (*red.Token, bool) {
	return nthToken(s.node, kind.Ident, 0)
}

func (s *StmtLet) Expr() (Expr, bool) { return nthExpr(s.node, 0) }

func (s *StmtLet) TypeAscription() (*TypeAscription, bool) {
	n, ok := nthNode(s.node, kindIs(kind.TypeAscription), 0)
	if !ok {
		return nil, false
	}
	return NewTypeAscription(n), true
}

// StmtLoop is `loop { ... }`, an unconditional loop.
type StmtLoop struct{ node *red.Node }

func NewStmtLoop(n *red.Node) *StmtLoop { return &StmtLoop{node: n} }
func (s *StmtLoop) Syntax() *red.Node   { return s.node }
func (*StmtLoop) isStmt()               {}

func (s *StmtLoop) Block() (*Block, bool) {
	n, ok := nthNode(s.node, kindIs(kind.Block), 0)
	if !ok {
		return nil, false
	}
	return NewBlock(n), true
}

// StmtWhile is `while expr { ... }`, canonicalized during IR lowering
// into a StmtLoop wrapping a leading break-on-false Decision (spec
// §4.5's while-loop canonicalization rule).
type StmtWhile struct{ node *red.Node }

func NewStmtWhile(n *red.Node) *StmtWhile { return &StmtWhile{node: n} }
func (s *StmtWhile) Syntax() *red.Node    { return s.node }
func (*StmtWhile) isStmt()                {}

func (s *StmtWhile) Expr() (Expr, bool) { return nthExpr(s.node, 0) }

func (s *StmtWhile) Block() (*Block, bool) {
	n, ok := nthNode(s.node, kindIs(kind.Block), 0)
	if !ok {
		return nil, false
	}
	return NewBlock(n), true
}

// StmtBreak is `break;`.
type StmtBreak struct{ node *red.Node }

func NewStmtBreak(n *red.Node) *StmtBreak { return &StmtBreak{node: n} }
func (s *StmtBreak) Syntax() *red.Node    { return s.node }
func (*StmtBreak) isStmt()                {}

// StmtContinue is `continue;`.
type StmtContinue struct{ node *red.Node }

func NewStmtContinue(n *red.Node) *StmtContinue { return &StmtContinue{node: n} }
func (s *StmtContinue) Syntax() *red.Node        { return s.node }
func (*StmtContinue) isStmt()                    {}

// StmtReturn is `return [expr];`.
type StmtReturn struct{ node *red.Node }

func NewStmtReturn(n *red.Node) *StmtReturn { return &StmtReturn{node: n} }
func (s *StmtReturn) Syntax() *red.Node     { return s.node }
func (*StmtReturn) isStmt()                 {}

func (s *StmtReturn) Expr() (Expr, bool) { return nthExpr(s.node, 0) }
