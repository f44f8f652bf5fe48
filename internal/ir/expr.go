package ir

import "github.com/narwhal-lang/narwhalc/internal/intern"

// LocalID indexes IR.Locals. ExprID indexes IR.Exprs. Both are dense,
// append-only arenas (spec §4.5's "local arena" and "expression arena");
// nothing in a lowered IR ever removes an entry, so ids stay stable for
// the IR's whole lifetime.
type LocalID int
type ExprID int

// LocalKind distinguishes why a Local exists.
type LocalKind int

const (
	LocalParam LocalKind = iota
	LocalBinding
	// LocalLate is a block-nested function/constant reserved on the
	// first of lowerBlock's two passes and filled in on the second
	// (spec §4.5 "late binding"; spec §9 invariant that the slot must be
	// empty when filled).
	LocalLate
)

// Local is one entry in IR.Locals.
type Local struct {
	Name intern.Key
	Kind LocalKind
	// ParamIndex is meaningful only when Kind == LocalParam.
	ParamIndex int
	Type       TypeVar
}

// PrefixOp is an IR-level unary operator.
type PrefixOp int

const (
	PrefixNegate PrefixOp = iota
	PrefixNot
)

// InfixOp is an IR-level binary operator.
type InfixOp int

const (
	InfixAdd InfixOp = iota
	InfixSub
	InfixMul
	InfixDiv
	InfixMod
	InfixEq
	InfixNe
	InfixLt
	InfixLe
	InfixGt
	InfixGe
	InfixAnd
	InfixOr
)

// ExprKind tags which field of Expr is meaningful.
type ExprKind int

const (
	ExprBlockKind ExprKind = iota
	ExprDecisionKind
	ExprLoopKind
	ExprBreakKind
	ExprContinueKind
	ExprReturnKind
	ExprPrefixKind
	ExprInfixKind
	ExprAssignKind
	ExprCallKind
	ExprLocalRefKind
	ExprGlobalRefKind
	ExprMemberKind
	ExprClosureKind
	ExprBoolKind
	ExprIntKind
	ExprFloatKind
	ExprCharKind
	ExprStringKind
	ExprUnitKind
)

// Expr is one entry in IR.Exprs: a closed tagged union over every
// expression form lowering can produce (spec §4.5 "Expressions"). Only
// the fields relevant to Kind are populated; this mirrors
// original_source's cir::nodes Expr enum collapsed into one Go struct
// since Go has no sum types.
type Expr struct {
	Kind ExprKind

	// Block
	Stmts []ExprID

	// Decision: parallel Conditions/Branches, optional Default (nil
	// means no trailing else). Each branch/Default is itself a sequence
	// of statement expr ids, i.e. an inlined block body.
	Conditions []ExprID
	Branches   [][]ExprID
	Default    []ExprID
	HasDefault bool

	// Loop
	Body ExprID

	// Return
	Value      ExprID
	HasValue   bool

	// Prefix
	PrefixOp PrefixOp
	Operand  ExprID

	// Infix
	InfixOp InfixOp
	Lhs     ExprID
	Rhs     ExprID

	// Assign
	Target ExprID

	// Call
	Callee ExprID
	Args   []ExprID

	// LocalRef
	Local LocalID

	// GlobalRef: the path's unconsumed trailing components are not kept
	// here; the lowerer wraps the GlobalRef in chained MemberAccess
	// expressions for them (spec §4.5 Path).
	Global int

	// MemberAccess
	Base ExprID
	Name intern.Key

	// Closure: parameters and return type are always lowered (so
	// bindings exist and the range is kept). For a nested `fn` item the
	// body is lowered too and HasClosureBody is true; for a closure
	// literal the body is not lowered and HasClosureBody is false.
	ClosureParams []LocalID
	ClosureReturn TypeVar
	ClosureBody   ExprID
	HasClosureBody bool

	// Atom literals
	BoolValue   bool
	IntValue    uint64
	FloatValue  float64
	CharValue   rune
	StringValue intern.Key
}

// Def is one entry in IR.Globals, one per index.Global, lowered per
// kind (spec §4.5 "Module lowering").
type DefKind int

const (
	DefTypeKind DefKind = iota
	DefFunctionKind
	DefConstantKind
)

func (k DefKind) String() string {
	switch k {
	case DefTypeKind:
		return "type"
	case DefFunctionKind:
		return "function"
	case DefConstantKind:
		return "constant"
	default:
		return "unknown"
	}
}

// Field is one member of a lowered type definition.
type Field struct {
	Name intern.Key
	Type TypeVar
}

// Def is a lowered global declaration.
type Def struct {
	Kind DefKind
	Name intern.Key

	// DefTypeKind
	Fields []Field

	// DefFunctionKind
	Params     []LocalID
	ReturnType TypeVar
	Body       ExprID

	// DefConstantKind
	Type  TypeVar
	Value ExprID
}
