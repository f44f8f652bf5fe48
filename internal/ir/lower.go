package ir

import (
	"strconv"
	"strings"

	"github.com/narwhal-lang/narwhalc/internal/index"
	"github.com/narwhal-lang/narwhalc/internal/intern"
	"github.com/narwhal-lang/narwhalc/internal/syntax/ast"
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

type lowerer struct {
	idx    *index.Index
	ir     *IR
	errs   []*LowerError
	locals *Env[LocalID]
	mod    *index.Module

	// importAliases caches, per module, the name bound to each of that
	// module's import statements (spec §4.5 "record name→(module,
	// optional global) under the last path component"). Built lazily
	// since most modules are visited once per global they declare.
	importAliases map[*index.Module]map[intern.Key]index.Resolved
}

func (l *lowerer) addErr(loc text.Span, format string, args ...any) {
	l.errs = append(l.errs, newLowerError(loc, format, args...))
}

func (l *lowerer) intern(s string) intern.Key { return l.idx.Interner.Intern(s) }

// lowerGlobal locates gid's declaring item, lowers it, and stores the
// result in ir.Globals[gid]. A failure to even locate the declaring
// node (e.g. the module tree and the global arena disagree, which
// should not happen) is recorded and leaves the slot nil.
func (l *lowerer) lowerGlobal(gid index.GlobalID) {
	g := l.idx.Globals[gid]
	mod := findModuleForGlobal(l.idx.Root, gid)
	if mod == nil {
		l.addErr(text.Span{}, "could not find owning module for global %q", nameOf(l.idx, g.Name))
		return
	}
	src := l.idx.Sources[g.Source]
	item, ok := findDeclItem(src, text.ByteOffset(g.SyntaxOffset))
	if !ok {
		l.addErr(text.Span{}, "could not find declaring syntax for global %q", nameOf(l.idx, g.Name))
		return
	}

	l.mod = mod
	l.locals = NewEnv[LocalID]()

	switch v := item.(type) {
	case *ast.TypeDef:
		l.ir.Globals[gid] = l.lowerTypeDef(v)
	case *ast.Function:
		l.ir.Globals[gid] = l.lowerFunctionGlobal(v)
	case *ast.Constant:
		l.ir.Globals[gid] = l.lowerConstantGlobal(v)
	}
}

func nameOf(idx *index.Index, k intern.Key) string {
	if s, ok := idx.Interner.Resolve(k); ok {
		return s
	}
	return "<unknown>"
}

// findModuleForGlobal walks the module tree looking for the module that
// owns gid, since Module.Globals is the only place that ownership is
// recorded.
func findModuleForGlobal(mod *index.Module, gid index.GlobalID) *index.Module {
	for _, g := range mod.Globals {
		if g == gid {
			return mod
		}
	}
	for _, child := range mod.Children {
		if found := findModuleForGlobal(child, gid); found != nil {
			return found
		}
	}
	return nil
}

// findDeclItem re-walks src's top-level items looking for the one whose
// syntax starts at offset, the same node load.go read when it first
// registered this global (spec §4.4's Global.SyntaxOffset contract).
func findDeclItem(src *index.Source, offset text.ByteOffset) (ast.Item, bool) {
	file := ast.NewFile(red.NewRoot(src.Tree))
	for _, item := range file.Items() {
		if item.Syntax().Start() == offset {
			return item, true
		}
	}
	return nil, false
}

// --- globals ---

func (l *lowerer) lowerTypeDef(t *ast.TypeDef) *Def {
	name, _ := t.NameToken()
	def := &Def{Kind: DefTypeKind, Name: l.nameKey(name)}
	for _, f := range t.Fields() {
		fname, _ := f.NameToken()
		var tv TypeVar
		if te, ok := f.Type(); ok {
			tv = l.lowerTypeExpr(te)
		} else {
			l.addErr(f.Syntax().Span(), "field %q has no type", tokenText(fname))
			tv = l.ir.Types.Unknown()
		}
		def.Fields = append(def.Fields, Field{Name: l.nameKey(fname), Type: tv})
	}
	return def
}

func (l *lowerer) lowerFunctionGlobal(fn *ast.Function) *Def {
	sig, ok := fn.Signature()
	if !ok {
		l.addErr(fn.Syntax().Span(), "function is missing a signature")
		return nil
	}
	name, _ := sig.NameToken()
	def := &Def{Kind: DefFunctionKind, Name: l.nameKey(name)}

	l.locals.OpenRestricted()
	def.Params = l.lowerParamLists(sig.Params())
	if rt, ok := sig.ReturnType(); ok {
		def.ReturnType = l.lowerTypeExpr(rt)
	} else {
		def.ReturnType = l.ir.Types.Void()
	}
	if blk, ok := fn.Block(); ok {
		def.Body = l.lowerBlock(blk)
	} else {
		l.addErr(fn.Syntax().Span(), "function %q has no body", tokenText(name))
	}
	l.locals.Close()
	return def
}

func (l *lowerer) lowerConstantGlobal(c *ast.Constant) *Def {
	name, _ := c.NameToken()
	def := &Def{Kind: DefConstantKind, Name: l.nameKey(name)}
	typed := false
	if ta, ok := c.TypeAscription(); ok {
		if te, ok := ta.Type(); ok {
			def.Type = l.lowerTypeExpr(te)
			typed = true
		}
	}
	if !typed {
		def.Type = l.ir.Types.Unknown()
	}
	if e, ok := c.Expr(); ok {
		def.Value = l.lowerExpr(e)
	} else {
		l.addErr(c.Syntax().Span(), "constant %q has no initializer", tokenText(name))
		def.Value = l.ir.pushExpr(Expr{Kind: ExprUnitKind})
	}
	return def
}

func (l *lowerer) nameKey(tok *red.Token) intern.Key {
	return l.intern(tokenText(tok))
}

func tokenText(tok *red.Token) string {
	if tok == nil {
		return ""
	}
	return tok.Text()
}

func tokenSpan(tok *red.Token) text.Span {
	if tok == nil {
		return text.Span{}
	}
	return tok.Span()
}

// --- types ---

func (l *lowerer) lowerTypeExpr(te ast.TypeExpr) TypeVar {
	switch v := te.(type) {
	case *ast.TypeFunction:
		var params []TypeVar
		for _, p := range v.ParamTypes() {
			if pt, ok := p.Type(); ok {
				params = append(params, l.lowerTypeExpr(pt))
			} else {
				params = append(params, l.ir.Types.Unknown())
			}
		}
		ret := l.ir.Types.Void()
		if rt, ok := v.ReturnType(); ok {
			ret = l.lowerTypeExpr(rt)
		}
		return l.ir.Types.Function(params, ret)
	case *ast.Path:
		return l.resolveTypePath(v)
	default:
		l.addErr(text.Span{}, "unsupported type expression")
		return l.ir.Types.Unknown()
	}
}

// resolveTypePath resolves a type-position path against the current
// module first, falling back to the enclosing module's import aliases
// only if that fails — the reverse order from a value path (spec §4.5
// "Type path: resolve ... if not found via the current module, search
// imports").
func (l *lowerer) resolveTypePath(p *ast.Path) TypeVar {
	_, absolute := p.Package()
	keys, ok := l.pathKeys(p)
	if !ok {
		return l.ir.Types.UnresolvedNamed()
	}

	if resolved, err := l.idx.ResolvePath(l.mod, absolute, keys); err == nil {
		if tv, ok := l.typeFromResolved(p, resolved); ok {
			return tv
		}
	}

	if resolved, ok := l.resolveViaImportAlias(keys); ok {
		if tv, ok := l.typeFromResolved(p, resolved); ok {
			return tv
		}
	}

	l.addErr(p.Syntax().Span(), "failed to resolve type path")
	return l.ir.Types.UnresolvedNamed()
}

func (l *lowerer) typeFromResolved(p *ast.Path, resolved index.Resolved) (TypeVar, bool) {
	if resolved.Global == nil || len(resolved.Remainder) != 0 {
		return 0, false
	}
	if l.idx.Globals[*resolved.Global].Kind != index.GlobalTypeDef {
		l.addErr(p.Syntax().Span(), "%q is not a type", nameOf(l.idx, l.idx.Globals[*resolved.Global].Name))
		return l.ir.Types.UnresolvedNamed(), true
	}
	return l.ir.Types.Named(int(*resolved.Global)), true
}

// importAliasesFor returns (building and caching, if needed) mod's
// import-alias table: the last component of each of mod's import paths
// mapped to what that path resolved to (spec §4.5 "Module lowering").
// A nonempty remainder or an outright resolution failure is reported
// once, here, rather than repeated at every use site.
func (l *lowerer) importAliasesFor(mod *index.Module) map[intern.Key]index.Resolved {
	if cached, ok := l.importAliases[mod]; ok {
		return cached
	}
	aliases := make(map[intern.Key]index.Resolved, len(mod.Imports))
	for _, imp := range mod.Imports {
		if len(imp.Components) == 0 {
			continue
		}
		loc := text.Span{Start: text.ByteOffset(imp.SyntaxOffset), End: text.ByteOffset(imp.SyntaxOffset)}
		resolved, err := l.idx.ResolvePath(mod, imp.Absolute, imp.Components)
		if err != nil {
			l.addErr(loc, "failed to resolve import: %s", err.Error())
			continue
		}
		if len(resolved.Remainder) != 0 {
			l.addErr(loc, "imported path does not name a concrete global")
			continue
		}
		last := imp.Components[len(imp.Components)-1]
		aliases[last] = resolved
	}
	l.importAliases[mod] = aliases
	return aliases
}

func (l *lowerer) resolveViaImportAlias(keys []intern.Key) (index.Resolved, bool) {
	aliases := l.importAliasesFor(l.mod)
	resolved, ok := aliases[keys[0]]
	if !ok {
		return index.Resolved{}, false
	}
	if len(keys) == 1 {
		return resolved, true
	}
	if resolved.Module == nil {
		return index.Resolved{}, false
	}
	// The alias named a module (not a concrete global); continue
	// resolving the remaining components inside it.
	further, err := l.idx.ResolvePath(resolved.Module, false, keys[1:])
	if err != nil {
		return index.Resolved{}, false
	}
	return further, true
}

func (l *lowerer) pathKeys(p *ast.Path) ([]intern.Key, bool) {
	var keys []intern.Key
	for _, c := range p.Components() {
		tok, ok := c.NameToken()
		if !ok {
			return nil, false
		}
		keys = append(keys, l.intern(tok.Text()))
	}
	return keys, len(keys) > 0
}

// --- params ---

func (l *lowerer) lowerParamLists(params []*ast.ParamList) []LocalID {
	var out []LocalID
	for i, p := range params {
		name, _ := p.NameToken()
		tv := l.ir.Types.Unknown()
		if te, ok := p.Type(); ok {
			tv = l.lowerTypeExpr(te)
		}
		key := l.nameKey(name)
		localID := l.ir.pushLocal(Local{Name: key, Kind: LocalParam, ParamIndex: i, Type: tv})
		if !l.locals.Bind(key, localID) {
			l.addErr(tokenSpan(name), "duplicate parameter name %q", tokenText(name))
		}
		out = append(out, localID)
	}
	return out
}

// --- blocks and statements ---

// lowerBlock lowers blk into a Block expression.
func (l *lowerer) lowerBlock(blk *ast.Block) ExprID {
	stmts := l.lowerBlockStmts(blk, nil)
	return l.ir.pushExpr(Expr{Kind: ExprBlockKind, Stmts: stmts})
}

// lowerBlockStmts lowers blk's statements in its own scope and returns
// their expression ids, with prefix prepended ahead of them (used by
// while-loop canonicalization to splice in the break-on-false decision
// without its own nested Block wrapper).
func (l *lowerer) lowerBlockStmts(blk *ast.Block, prefix []ExprID) []ExprID {
	l.locals.Open()
	defer l.locals.Close()

	stmts := blk.Stmts()

	// First pass: reserve a late local for every block-nested fn/const so
	// forward and mutual references resolve during the second pass (spec
	// §4.5 "late binding").
	lateLocals := make(map[int]LocalID, len(stmts))
	for i, s := range stmts {
		switch v := s.(type) {
		case *ast.Function:
			sig, ok := v.Signature()
			if !ok {
				continue
			}
			name, _ := sig.NameToken()
			key := l.nameKey(name)
			id := l.ir.pushLocal(Local{Name: key, Kind: LocalLate, Type: l.ir.Types.Unknown()})
			if !l.locals.Bind(key, id) {
				l.addErr(tokenSpan(name), "duplicate binding %q in block", tokenText(name))
			}
			lateLocals[i] = id
		case *ast.Constant:
			name, _ := v.NameToken()
			key := l.nameKey(name)
			id := l.ir.pushLocal(Local{Name: key, Kind: LocalLate, Type: l.ir.Types.Unknown()})
			if !l.locals.Bind(key, id) {
				l.addErr(tokenSpan(name), "duplicate binding %q in block", tokenText(name))
			}
			lateLocals[i] = id
		}
	}

	out := append([]ExprID{}, prefix...)
	for i, s := range stmts {
		if id, ok := l.lowerStmt(s, lateLocals, i); ok {
			out = append(out, id)
		}
	}
	return out
}

func (l *lowerer) lowerStmt(s ast.Stmt, lateLocals map[int]LocalID, idx int) (ExprID, bool) {
	switch v := s.(type) {
	case *ast.StmtExpr:
		if e, ok := v.Expr(); ok {
			return l.lowerExpr(e), true
		}
		return 0, false

	case *ast.StmtLet:
		return l.lowerStmtLet(v), true

	case *ast.StmtLoop:
		blk, ok := v.Block()
		if !ok {
			return 0, false
		}
		body := l.lowerBlock(blk)
		return l.ir.pushExpr(Expr{Kind: ExprLoopKind, Body: body}), true

	case *ast.StmtWhile:
		return l.lowerStmtWhile(v), true

	case *ast.StmtBreak:
		return l.ir.pushExpr(Expr{Kind: ExprBreakKind}), true

	case *ast.StmtContinue:
		return l.ir.pushExpr(Expr{Kind: ExprContinueKind}), true

	case *ast.StmtReturn:
		if e, ok := v.Expr(); ok {
			val := l.lowerExpr(e)
			return l.ir.pushExpr(Expr{Kind: ExprReturnKind, Value: val, HasValue: true}), true
		}
		return l.ir.pushExpr(Expr{Kind: ExprReturnKind}), true

	case *ast.Function:
		localID := lateLocals[idx]
		return l.lowerLateFunction(v, localID), true

	case *ast.Constant:
		localID := lateLocals[idx]
		return l.lowerLateConstant(v, localID), true

	default:
		return 0, false
	}
}

func (l *lowerer) lowerStmtLet(s *ast.StmtLet) ExprID {
	name, _ := s.NameToken()

	// The initializer is lowered with the binding's own name still
	// invisible (spec §4.5 "sub-scope"), so `let x = x;` resolves `x` on
	// the right to an outer binding, never to itself.
	l.locals.OpenSub()
	var initID ExprID
	hasInit := false
	if e, ok := s.Expr(); ok {
		initID = l.lowerExpr(e)
		hasInit = true
	}
	l.locals.Close()

	tv := l.ir.Types.Unknown()
	if ta, ok := s.TypeAscription(); ok {
		if te, ok := ta.Type(); ok {
			tv = l.lowerTypeExpr(te)
		}
	}

	key := l.nameKey(name)
	localID := l.ir.pushLocal(Local{Name: key, Kind: LocalBinding, Type: tv})
	l.locals.Bind(key, localID)

	if !hasInit {
		return l.ir.pushExpr(Expr{Kind: ExprLocalRefKind, Local: localID})
	}
	target := l.ir.pushExpr(Expr{Kind: ExprLocalRefKind, Local: localID})
	return l.ir.pushExpr(Expr{Kind: ExprAssignKind, Target: target, Rhs: initID})
}

// lowerStmtWhile canonicalizes `while cond { body }` into a plain loop
// whose block begins with a decision that breaks when cond is false,
// followed by body's own statements (spec §4.5 while-lowering).
func (l *lowerer) lowerStmtWhile(s *ast.StmtWhile) ExprID {
	var condID ExprID
	if e, ok := s.Expr(); ok {
		condID = l.lowerExpr(e)
	} else {
		condID = l.ir.pushExpr(Expr{Kind: ExprBoolKind, BoolValue: true})
	}

	breakID := l.ir.pushExpr(Expr{Kind: ExprBreakKind})
	decisionID := l.ir.pushExpr(Expr{
		Kind:       ExprDecisionKind,
		Conditions: []ExprID{condID},
		Branches:   [][]ExprID{{}},
		Default:    []ExprID{breakID},
		HasDefault: true,
	})

	var bodyStmts []ExprID
	if blk, ok := s.Block(); ok {
		bodyStmts = l.lowerBlockStmts(blk, []ExprID{decisionID})
	} else {
		bodyStmts = []ExprID{decisionID}
	}
	bodyBlock := l.ir.pushExpr(Expr{Kind: ExprBlockKind, Stmts: bodyStmts})
	return l.ir.pushExpr(Expr{Kind: ExprLoopKind, Body: bodyBlock})
}

func (l *lowerer) lowerLateFunction(fn *ast.Function, localID LocalID) ExprID {
	sig, ok := fn.Signature()
	if !ok {
		return l.ir.pushExpr(Expr{Kind: ExprUnitKind})
	}

	l.locals.OpenRestricted()
	params := l.lowerParamLists(sig.Params())
	ret := l.ir.Types.Void()
	if rt, ok := sig.ReturnType(); ok {
		ret = l.lowerTypeExpr(rt)
	}
	var body ExprID
	if blk, ok := fn.Block(); ok {
		body = l.lowerBlock(blk)
	}
	l.locals.Close()

	closureID := l.ir.pushExpr(Expr{
		Kind:           ExprClosureKind,
		ClosureParams:  params,
		ClosureReturn:  ret,
		ClosureBody:    body,
		HasClosureBody: true,
	})
	target := l.ir.pushExpr(Expr{Kind: ExprLocalRefKind, Local: localID})
	return l.ir.pushExpr(Expr{Kind: ExprAssignKind, Target: target, Rhs: closureID})
}

func (l *lowerer) lowerLateConstant(c *ast.Constant, localID LocalID) ExprID {
	if ta, ok := c.TypeAscription(); ok {
		if te, ok := ta.Type(); ok {
			l.ir.Locals[localID].Type = l.lowerTypeExpr(te)
		}
	}
	var valueID ExprID
	if e, ok := c.Expr(); ok {
		valueID = l.lowerExpr(e)
	} else {
		valueID = l.ir.pushExpr(Expr{Kind: ExprUnitKind})
	}
	target := l.ir.pushExpr(Expr{Kind: ExprLocalRefKind, Local: localID})
	return l.ir.pushExpr(Expr{Kind: ExprAssignKind, Target: target, Rhs: valueID})
}

// --- expressions ---

func (l *lowerer) lowerExpr(e ast.Expr) ExprID {
	switch v := e.(type) {
	case *ast.Block:
		return l.lowerBlock(v)

	case *ast.ExprIf:
		return l.lowerIf(v)

	case *ast.ExprParen:
		if inner, ok := v.Expr(); ok {
			return l.lowerExpr(inner)
		}
		return l.ir.pushExpr(Expr{Kind: ExprUnitKind})

	case *ast.ExprPrefix:
		return l.lowerPrefix(v)

	case *ast.ExprInfix:
		return l.lowerInfix(v)

	case *ast.ExprAssign:
		return l.lowerAssign(v)

	case *ast.ExprCall:
		return l.lowerCall(v)

	case *ast.ExprClosure:
		return l.lowerClosureLiteral(v)

	case *ast.Path:
		return l.lowerPathExpr(v)

	case ast.AtomLit:
		return l.lowerAtom(v)

	default:
		l.addErr(text.Span{}, "unsupported expression")
		return l.ir.pushExpr(Expr{Kind: ExprUnitKind})
	}
}

// lowerIf flattens an if/else-if/else chain into a single Decision with
// one (condition, branch) pair per arm and an optional Default for a
// trailing plain else (spec §4.5 if-flattening).
func (l *lowerer) lowerIf(first *ast.ExprIf) ExprID {
	var conds []ExprID
	var branches [][]ExprID
	var def []ExprID
	hasDefault := false

	cur := first
	for {
		if e, ok := cur.Expr(); ok {
			conds = append(conds, l.lowerExpr(e))
		} else {
			conds = append(conds, l.ir.pushExpr(Expr{Kind: ExprBoolKind}))
		}
		var branch []ExprID
		if blk, ok := cur.ThenBranch(); ok {
			branch = l.lowerBlockStmts(blk, nil)
		}
		branches = append(branches, branch)

		elseBranch, ok := cur.ElseBranch()
		if !ok {
			break
		}
		switch ev := elseBranch.(type) {
		case *ast.Block:
			def = l.lowerBlockStmts(ev, nil)
			hasDefault = true
		case *ast.ExprIf:
			cur = ev
			continue
		}
		break
	}

	return l.ir.pushExpr(Expr{
		Kind:       ExprDecisionKind,
		Conditions: conds,
		Branches:   branches,
		Default:    def,
		HasDefault: hasDefault,
	})
}

func (l *lowerer) lowerPrefix(p *ast.ExprPrefix) ExprID {
	op, ok := p.Op()
	var pop PrefixOp
	if ok {
		switch op.Kind() {
		case kind.Minus:
			pop = PrefixNegate
		case kind.NotKw:
			pop = PrefixNot
		}
	}
	var operand ExprID
	if e, ok := p.Expr(); ok {
		operand = l.lowerExpr(e)
	}
	return l.ir.pushExpr(Expr{Kind: ExprPrefixKind, PrefixOp: pop, Operand: operand})
}

var infixOpTable = map[kind.Kind]InfixOp{
	kind.Plus:    InfixAdd,
	kind.Minus:   InfixSub,
	kind.Star:    InfixMul,
	kind.Slash:   InfixDiv,
	kind.Percent: InfixMod,
	kind.Eq:      InfixEq,
	kind.Ne:      InfixNe,
	kind.Lt:      InfixLt,
	kind.Le:      InfixLe,
	kind.Gt:      InfixGt,
	kind.Ge:      InfixGe,
	kind.AndKw:   InfixAnd,
	kind.OrKw:    InfixOr,
}

func (l *lowerer) lowerInfix(e *ast.ExprInfix) ExprID {
	var lhs, rhs ExprID
	if v, ok := e.Lhs(); ok {
		lhs = l.lowerExpr(v)
	}
	if v, ok := e.Rhs(); ok {
		rhs = l.lowerExpr(v)
	}
	op := InfixAdd
	if opTok, ok := e.Op(); ok {
		if mapped, ok := infixOpTable[opTok.Kind()]; ok {
			op = mapped
		}
	}
	return l.ir.pushExpr(Expr{Kind: ExprInfixKind, InfixOp: op, Lhs: lhs, Rhs: rhs})
}

var compoundAssignTable = map[kind.Kind]InfixOp{
	kind.PlusEquals:    InfixAdd,
	kind.MinusEquals:   InfixSub,
	kind.StarEquals:    InfixMul,
	kind.SlashEquals:   InfixDiv,
	kind.PercentEquals: InfixMod,
}

// lowerAssign rewrites a compound assignment `lhs op= rhs` into
// `lhs = lhs op rhs`, lowering the lhs twice (once as the assignment's
// target, once as the infix's left operand) — harmless, since lowering
// a path or local reference twice just yields two references to the
// same slot (spec §4.5 "compound assignment rewriting").
func (l *lowerer) lowerAssign(e *ast.ExprAssign) ExprID {
	lhsNode, hasLhs := e.Lhs()
	rhsNode, hasRhs := e.Rhs()

	var target ExprID
	if hasLhs {
		target = l.lowerExpr(lhsNode)
	}

	var compound InfixOp
	isCompound := false
	if opTok, ok := e.Op(); ok {
		compound, isCompound = compoundAssignTable[opTok.Kind()]
	}
	if isCompound {
		var lhsAgain, rhs ExprID
		if hasLhs {
			lhsAgain = l.lowerExpr(lhsNode)
		}
		if hasRhs {
			rhs = l.lowerExpr(rhsNode)
		}
		infixID := l.ir.pushExpr(Expr{Kind: ExprInfixKind, InfixOp: compound, Lhs: lhsAgain, Rhs: rhs})
		return l.ir.pushExpr(Expr{Kind: ExprAssignKind, Target: target, Rhs: infixID})
	}

	var rhs ExprID
	if hasRhs {
		rhs = l.lowerExpr(rhsNode)
	}
	return l.ir.pushExpr(Expr{Kind: ExprAssignKind, Target: target, Rhs: rhs})
}

func (l *lowerer) lowerCall(c *ast.ExprCall) ExprID {
	var callee ExprID
	if v, ok := c.Callee(); ok {
		callee = l.lowerExpr(v)
	}
	var args []ExprID
	for _, a := range c.Args() {
		if v, ok := a.Expr(); ok {
			args = append(args, l.lowerExpr(v))
		}
	}
	return l.ir.pushExpr(Expr{Kind: ExprCallKind, Callee: callee, Args: args})
}

// lowerClosureLiteral lowers an in-expression `fn(params) -> R expr`
// closure's parameter bindings and return type, but deliberately leaves
// its body unlowered (HasClosureBody stays false): spec §9's open
// question on first-class function values is resolved here by keeping
// closures-as-values a placeholder, while still giving every parameter
// a Local so later passes can at least see the shape of the signature.
func (l *lowerer) lowerClosureLiteral(c *ast.ExprClosure) ExprID {
	l.locals.OpenRestricted()
	params := l.lowerParamLists(c.Params())
	ret := l.ir.Types.Void()
	if rt, ok := c.ReturnType(); ok {
		ret = l.lowerTypeExpr(rt)
	}
	l.locals.Close()

	return l.ir.pushExpr(Expr{
		Kind:          ExprClosureKind,
		ClosureParams: params,
		ClosureReturn: ret,
	})
}

// lowerPathExpr resolves a value-position path in the order spec §4.5
// names: the local environment first, then the enclosing module's
// import aliases, then the current module's own index.
func (l *lowerer) lowerPathExpr(p *ast.Path) ExprID {
	_, absolute := p.Package()
	keys, ok := l.pathKeys(p)
	if !ok {
		l.addErr(p.Syntax().Span(), "empty path")
		return l.ir.pushExpr(Expr{Kind: ExprUnitKind})
	}

	if !absolute {
		if localID, found := l.locals.Lookup(keys[0]); found {
			base := l.ir.pushExpr(Expr{Kind: ExprLocalRefKind, Local: localID})
			return l.chainMembers(base, keys[1:])
		}
		if resolved, ok := l.resolveViaImportAlias(keys); ok {
			return l.exprFromResolved(p, resolved)
		}
	}

	resolved, err := l.idx.ResolvePath(l.mod, absolute, keys)
	if err != nil {
		l.addErr(p.Syntax().Span(), "%s", err.Error())
		return l.ir.pushExpr(Expr{Kind: ExprUnitKind})
	}
	return l.exprFromResolved(p, resolved)
}

func (l *lowerer) exprFromResolved(p *ast.Path, resolved index.Resolved) ExprID {
	if resolved.Global == nil {
		l.addErr(p.Syntax().Span(), "path does not refer to a value")
		return l.ir.pushExpr(Expr{Kind: ExprUnitKind})
	}
	base := l.ir.pushExpr(Expr{Kind: ExprGlobalRefKind, Global: int(*resolved.Global)})
	return l.chainMembers(base, resolved.Remainder)
}

func (l *lowerer) chainMembers(base ExprID, remainder []intern.Key) ExprID {
	for _, key := range remainder {
		base = l.ir.pushExpr(Expr{Kind: ExprMemberKind, Base: base, Name: key})
	}
	return base
}

func (l *lowerer) lowerAtom(a ast.AtomLit) ExprID {
	switch a.Kind() {
	case kind.TrueKw:
		return l.ir.pushExpr(Expr{Kind: ExprBoolKind, BoolValue: true})
	case kind.FalseKw:
		return l.ir.pushExpr(Expr{Kind: ExprBoolKind, BoolValue: false})
	case kind.Int:
		v, err := parseIntLiteral(a.Text())
		if err != nil {
			l.addErr(a.Token().Span(), "invalid integer literal %q: %s", a.Text(), err)
		}
		return l.ir.pushExpr(Expr{Kind: ExprIntKind, IntValue: v})
	case kind.Float:
		v, err := strconv.ParseFloat(strings.ReplaceAll(a.Text(), "_", ""), 64)
		if err != nil {
			l.addErr(a.Token().Span(), "invalid float literal %q: %s", a.Text(), err)
		}
		return l.ir.pushExpr(Expr{Kind: ExprFloatKind, FloatValue: v})
	case kind.Char:
		r, err := parseCharLiteral(a.Text())
		if err != nil {
			l.addErr(a.Token().Span(), "invalid char literal %q: %s", a.Text(), err)
		}
		return l.ir.pushExpr(Expr{Kind: ExprCharKind, CharValue: r})
	case kind.String:
		// Kept as the raw token (quotes and escapes preserved, spec
		// §4.5 "Atom"), unlike Char above which is fully decoded.
		return l.ir.pushExpr(Expr{Kind: ExprStringKind, StringValue: l.intern(a.Text())})
	default:
		l.addErr(a.Token().Span(), "unsupported literal")
		return l.ir.pushExpr(Expr{Kind: ExprUnitKind})
	}
}

// parseIntLiteral accepts the narwhal integer grammar: decimal, 0x/0X
// hex, 0b/0B binary, with optional '_' digit-group separators.
func parseIntLiteral(text string) (uint64, error) {
	text = strings.ReplaceAll(text, "_", "")
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		return strconv.ParseUint(text[2:], 16, 64)
	case strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B"):
		return strconv.ParseUint(text[2:], 2, 64)
	default:
		return strconv.ParseUint(text, 10, 64)
	}
}

func parseCharLiteral(text string) (rune, error) {
	inner := strings.Trim(text, "'")
	unescaped, err := unescape(inner)
	if err != nil {
		return 0, err
	}
	runes := []rune(unescaped)
	if len(runes) == 0 {
		return 0, strconv.ErrSyntax
	}
	return runes[0], nil
}

// unescape interprets the small escape set the lexer recognizes inside
// char and string literals.
func unescape(s string) (string, error) {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' {
			b.WriteRune(runes[i])
			continue
		}
		i++
		if i >= len(runes) {
			return "", strconv.ErrSyntax
		}
		switch runes[i] {
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case 'r':
			b.WriteRune('\r')
		case '0':
			b.WriteRune(0)
		case '\\':
			b.WriteRune('\\')
		case '\'':
			b.WriteRune('\'')
		case '"':
			b.WriteRune('"')
		default:
			return "", strconv.ErrSyntax
		}
	}
	return b.String(), nil
}
