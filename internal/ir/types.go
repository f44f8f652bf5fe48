package ir

// TypeVar is an index into a TypeContext's arena of TypeInfo, standing in
// for "the type of this expression/binding" without this build
// implementing a checker or inference engine (spec §4.5 only asks
// lowering to produce type variables, not to solve them).
type TypeVar int

// TypeInfoKind distinguishes what little a TypeVar currently says about
// itself.
type TypeInfoKind int

const (
	// TypeUnknown is a type variable with no resolved annotation — the
	// default for an omitted type ascription or return type.
	TypeUnknown TypeInfoKind = iota
	// TypeVoid is the implicit return type of a function with no `->`.
	TypeVoid
	// TypeNamed refers to a declared type by its index.GlobalID, or to a
	// path that did not resolve (Unresolved set) so lowering can still
	// produce a TypeVar and continue past the error.
	TypeNamed
	// TypeFunction is a `fn(...) -> R` type expression.
	TypeFunction
)

// TypeInfo is one TypeContext arena entry.
type TypeInfo struct {
	Kind TypeInfoKind

	// Global is set when Kind == TypeNamed and the path resolved.
	Global     int
	GlobalSet  bool
	Unresolved bool

	// Params/Return are set when Kind == TypeFunction.
	Params []TypeVar
	Return TypeVar
}

// TypeContext is the arena every TypeVar indexes into.
type TypeContext struct {
	infos []TypeInfo
}

func newTypeContext() *TypeContext {
	return &TypeContext{}
}

func (tc *TypeContext) push(info TypeInfo) TypeVar {
	tc.infos = append(tc.infos, info)
	return TypeVar(len(tc.infos) - 1)
}

// Unknown allocates a fresh unresolved type variable.
func (tc *TypeContext) Unknown() TypeVar { return tc.push(TypeInfo{Kind: TypeUnknown}) }

// Void allocates the implicit void return type.
func (tc *TypeContext) Void() TypeVar { return tc.push(TypeInfo{Kind: TypeVoid}) }

// Named allocates a type variable referring to a resolved global.
func (tc *TypeContext) Named(global int) TypeVar {
	return tc.push(TypeInfo{Kind: TypeNamed, Global: global, GlobalSet: true})
}

// UnresolvedNamed allocates a type variable for a type path that failed
// to resolve, so lowering can record a diagnostic and keep going rather
// than abort (spec §7 redesign: resolution errors must not be fatal).
func (tc *TypeContext) UnresolvedNamed() TypeVar {
	return tc.push(TypeInfo{Kind: TypeNamed, Unresolved: true})
}

// Function allocates a function-type variable.
func (tc *TypeContext) Function(params []TypeVar, ret TypeVar) TypeVar {
	return tc.push(TypeInfo{Kind: TypeFunction, Params: params, Return: ret})
}

// Info returns the TypeInfo a TypeVar stands for.
func (tc *TypeContext) Info(v TypeVar) TypeInfo { return tc.infos[v] }
