package ir

import "github.com/narwhal-lang/narwhalc/internal/intern"

// scopeKind distinguishes the three scope-opening operations spec §4.5
// names (regular, restricted, sub-scope).
type scopeKind int

const (
	scopeRegular scopeKind = iota
	scopeRestricted
	scopeSub
)

// Env is a stack of identifier-keyed scopes generic over whatever a
// caller wants a name to resolve to (here, always LocalID). A regular
// scope and a sub-scope behave identically for lookup purposes — both
// let a search continue into enclosing scopes — and differ only in
// intent: a sub-scope exists so a let-binding's own name is invisible
// while its initializer is lowered, without otherwise changing how
// shadowing or lookup works. A restricted scope's frame is still
// searched, but the search never continues past it, which is what keeps
// a function body from seeing its caller's locals.
type Env[T any] struct {
	frames []envFrame[T]
}

type envFrame[T any] struct {
	kind     scopeKind
	bindings map[intern.Key]T
}

// NewEnv returns an empty Env with no open scopes.
func NewEnv[T any]() *Env[T] { return &Env[T]{} }

func (e *Env[T]) push(kind scopeKind) {
	e.frames = append(e.frames, envFrame[T]{kind: kind, bindings: make(map[intern.Key]T)})
}

// Open pushes a regular scope.
func (e *Env[T]) Open() { e.push(scopeRegular) }

// OpenRestricted pushes a scope that stops upward lookup at its own
// level, used for function bodies (spec §4.5).
func (e *Env[T]) OpenRestricted() { e.push(scopeRestricted) }

// OpenSub pushes a transparent scope, used to hide a let-binding's own
// name while its initializer is lowered (spec §4.5).
func (e *Env[T]) OpenSub() { e.push(scopeSub) }

// Close pops back to the parent scope.
func (e *Env[T]) Close() {
	e.frames = e.frames[:len(e.frames)-1]
}

// Bind binds name to val in the innermost open scope, overwriting any
// existing binding there. It reports false when name was already bound
// in that scope, mirroring original_source's Env::bind (cir/resolve.rs),
// which inserts unconditionally and returns Err(old) on collision rather
// than rejecting the new value. Callers that permit shadowing (let
// statements) ignore the result; callers where a collision is a genuine
// error (duplicate parameter names, duplicate block-scoped fn/const
// names) turn a false result into a *LowerError.
func (e *Env[T]) Bind(name intern.Key, val T) bool {
	top := &e.frames[len(e.frames)-1]
	_, existed := top.bindings[name]
	top.bindings[name] = val
	return !existed
}

// Lookup searches from the innermost scope outward, stopping after
// (inclusive of) the first restricted scope it searches.
func (e *Env[T]) Lookup(name intern.Key) (T, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i].bindings[name]; ok {
			return v, true
		}
		if e.frames[i].kind == scopeRestricted {
			break
		}
	}
	var zero T
	return zero, false
}
