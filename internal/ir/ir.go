// Package ir lowers a loaded index.Index into a flat intermediate
// representation: locals and expressions in append-only arenas, paths
// resolved to either a local slot or a global id, while loops
// canonicalized into a plain loop plus a leading break-on-false
// decision, and if/else-if chains flattened into one multi-branch
// Decision (spec §4.5). It is grounded on original_source's
// cir.rs/cir/construct.rs; every site that source panics or calls
// .expect() on a resolution failure instead records a *LowerError here
// and keeps going, per spec §7's redesign requirement that lowering
// never be fatal.
package ir

import (
	"fmt"

	"github.com/narwhal-lang/narwhalc/internal/index"
	"github.com/narwhal-lang/narwhalc/internal/intern"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

// LowerError is one recoverable failure encountered while lowering,
// e.g. an unresolved path or a name already bound in the current scope.
// It is deliberately the same shape as diagnostic.Report's essentials
// (message plus location) without importing that package's Level
// machinery, since lowering has no notion of Help/Warning severity —
// every LowerError is an error.
type LowerError struct {
	Message  string
	Location text.Span
}

func (e *LowerError) Error() string {
	return fmt.Sprintf("%s (at %d..%d)", e.Message, e.Location.Start, e.Location.End)
}

func newLowerError(loc text.Span, format string, args ...any) *LowerError {
	return &LowerError{Message: fmt.Sprintf(format, args...), Location: loc}
}

// IR is the complete lowered output of one index.Index.
type IR struct {
	// Globals is parallel to index.Index.Globals: Globals[i] is the
	// lowering of idx.Globals[i], or nil if lowering that global failed
	// outright (e.g. its declaring node was malformed past recovery).
	Globals []*Def
	Locals  []Local
	Exprs   []Expr
	Types   *TypeContext
}

func newIR() *IR {
	return &IR{Types: newTypeContext()}
}

func (ir *IR) pushLocal(l Local) LocalID {
	ir.Locals = append(ir.Locals, l)
	return LocalID(len(ir.Locals) - 1)
}

func (ir *IR) pushExpr(e Expr) ExprID {
	ir.Exprs = append(ir.Exprs, e)
	return ExprID(len(ir.Exprs) - 1)
}

// Lower lowers every Global in idx into ir.Globals, in GlobalID order.
// It never returns early on a per-global error: a failure is recorded
// both as a nil Globals slot and as a *LowerError, and lowering moves on
// to the next global (spec §7 redesign).
func Lower(idx *index.Index) (*IR, []*LowerError) {
	l := &lowerer{idx: idx, ir: newIR(), importAliases: make(map[*index.Module]map[intern.Key]index.Resolved)}
	l.ir.Globals = make([]*Def, len(idx.Globals))
	for gid := range idx.Globals {
		l.lowerGlobal(index.GlobalID(gid))
	}
	return l.ir, l.errs
}
