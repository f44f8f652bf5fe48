// Package gen holds the declarative grammar description that drives the
// generated kind enumeration, lexer, and typed syntax accessors (spec
// §4.1). It is consumed offline, the way original_source's
// `narwhal.ungram` + `build.rs` (an ungrammar-crate grammar file plus a
// proc-macro code generator) is consumed by `cargo build`: nothing in this
// package runs at narwhalc's run time. The Go ports of its output —
// internal/syntax/kind, internal/syntax/lexer, and internal/syntax/ast —
// are checked in as "generated" sources and must stay in lockstep with the
// rules described here; a real toolchain would regenerate them from this
// file with `go generate`.
//
// Grammar shape, mirroring build.rs's two NodeType cases:
//   - a StructRule is a sequence of fields, each a (possibly repeated,
//     possibly optional) reference to a token or another node; it produces
//     a concrete Go struct with role-named accessors.
//   - an EnumRule is an alternation over nodes and/or tokens; it produces a
//     tagged union (an interface plus a cast-from-kind constructor).
//
// Two generation-time rules are enforced by construction in the tables
// below, not by a checker, since there is no generator binary in this
// repo — but they are the same rules original_source's build.rs enforces
// implicitly through ungrammar's own repetition/alternation syntax:
//
//  1. Repetition disambiguation: within one StructRule, a field type may
//     appear as several distinct single-occurrence fields (each with its
//     own Label, taking the Nth child of that kind in source order), or as
//     at most one Repeated field — never both for the same Ref.
//  2. Comma-list recognition: a field shaped like `(T (',' T)* ','?)` is
//     written here as a single Repeated field over T; the generated
//     accessor enumerates every T child in source order and callers lower
//     trailing-comma recovery themselves (see parser's *_list helpers).
package gen

// RefKind distinguishes a field referencing a token kind from one
// referencing another node kind.
type RefKind int

const (
	RefToken RefKind = iota
	RefNode
)

// Field is one role-named child of a StructRule.
type Field struct {
	Label    string // role name before snake_case + reserved-word-suffix rules
	Ref      string // token or node name this field refers to
	RefKind  RefKind
	Repeated bool // comma-list or bare repetition; accessor yields a sequence
	Optional bool // accessor yields an optional (at most one occurrence)
}

// StructRule describes a concrete struct-node production.
type StructRule struct {
	Name   string
	Fields []Field
}

// EnumRule describes an alternation (tagged union) production.
type EnumRule struct {
	Name         string
	Alternatives []string // node or token names
}

// Structs is the narwhal grammar's concrete node productions, transcribed
// from original_source's parser/grammar.rs control flow (each p.start_node
// call site corresponds to one rule here).
var Structs = []StructRule{
	{Name: "File", Fields: []Field{
		{Label: "Items", Ref: "Item", RefKind: RefNode, Repeated: true},
	}},
	{Name: "Import", Fields: []Field{
		{Label: "Path", Ref: "Path", RefKind: RefNode},
	}},
	{Name: "TypeDef", Fields: []Field{
		{Label: "Name", Ref: "Ident", RefKind: RefToken},
		{Label: "Fields", Ref: "AdtField", RefKind: RefNode, Repeated: true},
	}},
	{Name: "AdtField", Fields: []Field{
		{Label: "Name", Ref: "Ident", RefKind: RefToken},
		{Label: "Type", Ref: "TypeExpr", RefKind: RefNode},
	}},
	{Name: "TypeFunction", Fields: []Field{
		{Label: "ParamTypes", Ref: "TypeList", RefKind: RefNode, Repeated: true},
		{Label: "ReturnType", Ref: "TypeExpr", RefKind: RefNode, Optional: true},
	}},
	{Name: "TypeList", Fields: []Field{
		{Label: "Type", Ref: "TypeExpr", RefKind: RefNode},
	}},
	{Name: "TypeAscription", Fields: []Field{
		{Label: "Type", Ref: "TypeExpr", RefKind: RefNode},
	}},
	{Name: "Signature", Fields: []Field{
		{Label: "Name", Ref: "Ident", RefKind: RefToken},
		{Label: "Params", Ref: "ParamList", RefKind: RefNode, Repeated: true},
		{Label: "ReturnType", Ref: "TypeExpr", RefKind: RefNode, Optional: true},
	}},
	{Name: "ParamList", Fields: []Field{
		{Label: "Name", Ref: "Ident", RefKind: RefToken},
		{Label: "Type", Ref: "TypeExpr", RefKind: RefNode, Optional: true},
	}},
	{Name: "Function", Fields: []Field{
		{Label: "Signature", Ref: "Signature", RefKind: RefNode},
		{Label: "Block", Ref: "Block", RefKind: RefNode, Optional: true},
	}},
	{Name: "Constant", Fields: []Field{
		{Label: "Name", Ref: "Ident", RefKind: RefToken},
		{Label: "Expr", Ref: "Expr", RefKind: RefNode, Optional: true},
		{Label: "TypeAscription", Ref: "TypeAscription", RefKind: RefNode, Optional: true},
	}},
	{Name: "Block", Fields: []Field{
		{Label: "Stmts", Ref: "Stmt", RefKind: RefNode, Repeated: true},
	}},
	{Name: "StmtExpr", Fields: []Field{
		{Label: "Expr", Ref: "Expr", RefKind: RefNode},
	}},
	{Name: "StmtLet", Fields: []Field{
		{Label: "Name", Ref: "Ident", RefKind: RefToken},
		{Label: "Expr", Ref: "Expr", RefKind: RefNode, Optional: true},
		{Label: "TypeAscription", Ref: "TypeAscription", RefKind: RefNode, Optional: true},
	}},
	{Name: "StmtLoop", Fields: []Field{
		{Label: "Block", Ref: "Block", RefKind: RefNode, Optional: true},
	}},
	{Name: "StmtWhile", Fields: []Field{
		{Label: "Expr", Ref: "Expr", RefKind: RefNode, Optional: true},
		{Label: "Block", Ref: "Block", RefKind: RefNode, Optional: true},
	}},
	{Name: "StmtBreak"},
	{Name: "StmtContinue"},
	{Name: "StmtReturn", Fields: []Field{
		{Label: "Expr", Ref: "Expr", RefKind: RefNode, Optional: true},
	}},
	{Name: "ExprIf", Fields: []Field{
		{Label: "Expr", Ref: "Expr", RefKind: RefNode},
		{Label: "ThenBranch", Ref: "Block", RefKind: RefNode, Optional: true},
		{Label: "ElseBranch", Ref: "ExprElse", RefKind: RefNode, Optional: true},
	}},
	{Name: "ExprParen", Fields: []Field{
		{Label: "Expr", Ref: "Expr", RefKind: RefNode},
	}},
	{Name: "ExprPrefix", Fields: []Field{
		{Label: "PrefixOp", Ref: "PrefixOp", RefKind: RefNode},
		{Label: "Expr", Ref: "Expr", RefKind: RefNode},
	}},
	{Name: "ExprInfix", Fields: []Field{
		{Label: "Lhs", Ref: "Expr", RefKind: RefNode},
		{Label: "InfixOp", Ref: "InfixOp", RefKind: RefNode},
		{Label: "Rhs", Ref: "Expr", RefKind: RefNode},
	}},
	{Name: "ExprAssign", Fields: []Field{
		{Label: "Lhs", Ref: "Expr", RefKind: RefNode},
		{Label: "AssignOp", Ref: "AssignOp", RefKind: RefNode},
		{Label: "Rhs", Ref: "Expr", RefKind: RefNode},
	}},
	{Name: "ExprCall", Fields: []Field{
		{Label: "Expr", Ref: "Expr", RefKind: RefNode},
		{Label: "Args", Ref: "ExprList", RefKind: RefNode, Repeated: true},
	}},
	{Name: "ExprList", Fields: []Field{
		{Label: "Expr", Ref: "Expr", RefKind: RefNode},
	}},
	{Name: "ExprClosure", Fields: []Field{
		{Label: "Params", Ref: "ParamList", RefKind: RefNode, Repeated: true},
		{Label: "ReturnType", Ref: "TypeExpr", RefKind: RefNode, Optional: true},
		{Label: "Expr", Ref: "Expr", RefKind: RefNode, Optional: true},
	}},
	{Name: "Path", Fields: []Field{
		{Label: "Package", Ref: "PackageKw", RefKind: RefToken, Optional: true},
		{Label: "Components", Ref: "PathComponent", RefKind: RefNode, Repeated: true},
	}},
	{Name: "PathComponent", Fields: []Field{
		{Label: "Name", Ref: "Ident", RefKind: RefToken},
	}},
	{Name: "ErrorTree"},
}

// Enums is the narwhal grammar's alternation productions.
var Enums = []EnumRule{
	{Name: "Item", Alternatives: []string{"Import", "TypeDef", "Function", "Constant"}},
	{Name: "TypeExpr", Alternatives: []string{"TypeFunction", "Path"}},
	{Name: "Stmt", Alternatives: []string{
		"StmtExpr", "StmtLet", "StmtLoop", "StmtWhile", "StmtBreak",
		"StmtContinue", "StmtReturn", "Function", "Constant", "Semicolon",
	}},
	{Name: "Expr", Alternatives: []string{
		"Block", "ExprIf", "ExprParen", "ExprPrefix", "ExprInfix", "ExprAssign",
		"ExprCall", "ExprClosure", "Atom", "Path",
	}},
	{Name: "ExprElse", Alternatives: []string{"Block", "ExprIf"}},
	{Name: "Atom", Alternatives: []string{"True", "False", "Int", "Float", "Char", "String"}},
	{Name: "PrefixOp", Alternatives: []string{"Minus", "NotKw"}},
	{Name: "InfixOp", Alternatives: []string{
		"Plus", "Minus", "Star", "Slash", "Percent",
		"Eq", "Ne", "Lt", "Le", "Gt", "Ge", "AndKw", "OrKw",
	}},
	{Name: "AssignOp", Alternatives: []string{
		"Equals", "PlusEquals", "MinusEquals", "StarEquals", "SlashEquals", "PercentEquals",
	}},
}
