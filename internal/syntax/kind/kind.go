// Code generated from internal/syntax/gen's grammar description; structure
// mirrors original_source's syntax/generated.rs::kind module. DO NOT EDIT.

// Package kind defines the single Kind enumeration shared by every token
// and node in the concrete syntax tree (spec §3 "Token kind").
package kind

import "fmt"

// Kind tags every token and node produced by the lexer and parser. Every
// green token or node carries exactly one Kind (spec §3 invariant).
type Kind uint16

const (
	// Invalid is the zero value and is never assigned to a real token or node.
	Invalid Kind = iota

	// --- keywords ---
	ImportKw
	TypeKw
	FnKw
	ConstKw
	LetKw
	LoopKw
	WhileKw
	BreakKw
	ContinueKw
	ReturnKw
	IfKw
	ElseKw
	AndKw
	OrKw
	NotKw
	PackageKw
	TrueKw
	FalseKw

	// --- literal classes and identifier ---
	Ident
	Int
	Float
	Char
	String

	// --- symbols ---
	Semicolon
	LeftParen
	RightParen
	Colon
	Comma
	Arrow
	Equals
	LeftBrace
	RightBrace
	Plus
	Minus
	Star
	Slash
	Percent
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	PlusEquals
	MinusEquals
	StarEquals
	SlashEquals
	PercentEquals
	Dot

	// --- trivia ---
	Newlines
	Whitespace
	Comment

	// --- struct-node kinds ---
	File
	Import
	TypeDef
	AdtField
	TypeFunction
	TypeList
	TypeAscription
	Signature
	ParamList
	Function
	Constant
	Block
	StmtExpr
	StmtLet
	StmtLoop
	StmtWhile
	StmtBreak
	StmtContinue
	StmtReturn
	ExprIf
	ExprParen
	ExprPrefix
	ExprInfix
	ExprAssign
	ExprCall
	ExprList
	ExprClosure
	Path
	PathComponent

	// --- synthetic kinds ---
	ErrorToken
	ErrorTree
	Eof
)

var names = [...]string{
	Invalid:        "Invalid",
	ImportKw:       "ImportKw",
	TypeKw:         "TypeKw",
	FnKw:           "FnKw",
	ConstKw:        "ConstKw",
	LetKw:          "LetKw",
	LoopKw:         "LoopKw",
	WhileKw:        "WhileKw",
	BreakKw:        "BreakKw",
	ContinueKw:     "ContinueKw",
	ReturnKw:       "ReturnKw",
	IfKw:           "IfKw",
	ElseKw:         "ElseKw",
	AndKw:          "AndKw",
	OrKw:           "OrKw",
	NotKw:          "NotKw",
	PackageKw:      "PackageKw",
	TrueKw:         "True",
	FalseKw:        "False",
	Ident:          "Ident",
	Int:            "Int",
	Float:          "Float",
	Char:           "Char",
	String:         "String",
	Semicolon:      "Semicolon",
	LeftParen:      "LeftParen",
	RightParen:     "RightParen",
	Colon:          "Colon",
	Comma:          "Comma",
	Arrow:          "Arrow",
	Equals:         "Equals",
	LeftBrace:      "LeftBrace",
	RightBrace:     "RightBrace",
	Plus:           "Plus",
	Minus:          "Minus",
	Star:           "Star",
	Slash:          "Slash",
	Percent:        "Percent",
	Eq:             "Eq",
	Ne:             "Ne",
	Lt:             "Lt",
	Le:             "Le",
	Gt:             "Gt",
	Ge:             "Ge",
	PlusEquals:     "PlusEquals",
	MinusEquals:    "MinusEquals",
	StarEquals:     "StarEquals",
	SlashEquals:    "SlashEquals",
	PercentEquals:  "PercentEquals",
	Dot:            "Dot",
	Newlines:       "Newlines",
	Whitespace:     "Whitespace",
	Comment:        "Comment",
	File:           "File",
	Import:         "Import",
	TypeDef:        "TypeDef",
	AdtField:       "AdtField",
	TypeFunction:   "TypeFunction",
	TypeList:       "TypeList",
	TypeAscription: "TypeAscription",
	Signature:      "Signature",
	ParamList:      "ParamList",
	Function:       "Function",
	Constant:       "Constant",
	Block:          "Block",
	StmtExpr:       "StmtExpr",
	StmtLet:        "StmtLet",
	StmtLoop:       "StmtLoop",
	StmtWhile:      "StmtWhile",
	StmtBreak:      "StmtBreak",
	StmtContinue:   "StmtContinue",
	StmtReturn:     "StmtReturn",
	ExprIf:         "ExprIf",
	ExprParen:      "ExprParen",
	ExprPrefix:     "ExprPrefix",
	ExprInfix:      "ExprInfix",
	ExprAssign:     "ExprAssign",
	ExprCall:       "ExprCall",
	ExprList:       "ExprList",
	ExprClosure:    "ExprClosure",
	Path:           "Path",
	PathComponent:  "PathComponent",
	ErrorToken:     "ErrorToken",
	ErrorTree:      "ErrorTree",
	Eof:            "Eof",
}

func (k Kind) String() string {
	if int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// keywords maps the spelling of every reserved word to its Kind, used by
// the lexer to distinguish keywords from Ident.
var keywords = map[string]Kind{
	"import":   ImportKw,
	"type":     TypeKw,
	"fn":       FnKw,
	"const":    ConstKw,
	"let":      LetKw,
	"loop":     LoopKw,
	"while":    WhileKw,
	"break":    BreakKw,
	"continue": ContinueKw,
	"return":   ReturnKw,
	"if":       IfKw,
	"else":     ElseKw,
	"and":      AndKw,
	"or":       OrKw,
	"not":      NotKw,
	"package":  PackageKw,
	"true":     TrueKw,
	"false":    FalseKw,
}

// Keyword returns the keyword Kind for word, and false if word is an
// ordinary identifier.
func Keyword(word string) (Kind, bool) {
	k, ok := keywords[word]
	return k, ok
}

// IsTrivia reports whether k is whitespace, a newline run, or a comment —
// preserved in the tree but not semantically significant (spec glossary).
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, Newlines, Comment:
		return true
	default:
		return false
	}
}

// IsToken reports whether k is ever produced by the lexer (as opposed to
// only ever appearing as a node kind built by the parser).
func (k Kind) IsToken() bool {
	switch k {
	case File, Import, TypeDef, AdtField, TypeFunction, TypeList, TypeAscription,
		Signature, ParamList, Function, Constant, Block, StmtExpr, StmtLet, StmtLoop,
		StmtWhile, StmtBreak, StmtContinue, StmtReturn, ExprIf, ExprParen, ExprPrefix,
		ExprInfix, ExprAssign, ExprCall, ExprList, ExprClosure, Path, PathComponent,
		ErrorTree:
		return false
	default:
		return k != Invalid
	}
}
