package parser

import "github.com/narwhal-lang/narwhalc/internal/syntax/kind"

// itemStarters are the tokens that can begin a top-level or nested item;
// used both to decide what to parse next and as a statement-level
// recovery stop set.
var itemStarters = []kind.Kind{kind.ImportKw, kind.TypeKw, kind.FnKw, kind.ConstKw}

// stmtStarters additionally includes every token that can begin an
// expression-statement or a control-flow statement, for block-level
// recovery.
var stmtStarters = append(append([]kind.Kind{}, itemStarters...),
	kind.LetKw, kind.LoopKw, kind.WhileKw, kind.BreakKw, kind.ContinueKw, kind.ReturnKw,
	kind.LeftBrace, kind.IfKw, kind.LeftParen, kind.Minus, kind.NotKw,
	kind.Ident, kind.TrueKw, kind.FalseKw, kind.Int, kind.Float, kind.Char, kind.String,
	kind.PackageKw, kind.Semicolon)

// file = item* EOF
func (p *parserState) file() {
	p.b.startNode(kind.File)
	for !p.eof() {
		p.item()
	}
	p.b.finishNode()
}

// item = import | type_def | function | constant
func (p *parserState) item() {
	switch {
	case p.at(kind.ImportKw):
		p.importItem()
	case p.at(kind.TypeKw):
		p.typeDef()
	case p.at(kind.FnKw):
		p.function()
	case p.at(kind.ConstKw):
		p.constant()
	default:
		p.errorAt("expected an item (import, type, fn, or const)")
		p.recoverTo(itemStarters...)
	}
}

// import = 'import' path ';'
func (p *parserState) importItem() {
	p.b.startNode(kind.Import)
	p.bump() // 'import'
	p.path()
	p.expect(kind.Semicolon)
	p.b.finishNode()
}

// type_def = 'type' IDENT '{' (adt_field (',' adt_field)* ','?)? '}'
func (p *parserState) typeDef() {
	p.b.startNode(kind.TypeDef)
	p.bump() // 'type'
	p.expect(kind.Ident)
	p.expect(kind.LeftBrace)
	for !p.eof() && !p.at(kind.RightBrace) {
		p.adtField()
		if !p.consume(kind.Comma) {
			break
		}
	}
	p.expect(kind.RightBrace)
	p.b.finishNode()
}

// adt_field = IDENT ':' type_expr
func (p *parserState) adtField() {
	p.b.startNode(kind.AdtField)
	p.expect(kind.Ident)
	p.expect(kind.Colon)
	p.typeExpr()
	p.b.finishNode()
}

// type_expr = type_function | path
func (p *parserState) typeExpr() {
	if p.at(kind.FnKw) {
		p.typeFunction()
		return
	}
	p.path()
}

// type_function = 'fn' '(' (type_list (',' type_list)* ','?)? ')' ('->' type_expr)?
func (p *parserState) typeFunction() {
	p.b.startNode(kind.TypeFunction)
	p.bump() // 'fn'
	p.expect(kind.LeftParen)
	for !p.eof() && !p.at(kind.RightParen) {
		p.b.startNode(kind.TypeList)
		p.typeExpr()
		p.b.finishNode()
		if !p.consume(kind.Comma) {
			break
		}
	}
	p.expect(kind.RightParen)
	if p.consume(kind.Arrow) {
		p.typeExpr()
	}
	p.b.finishNode()
}

// function = signature block?
func (p *parserState) function() {
	p.b.startNode(kind.Function)
	p.signature()
	if p.at(kind.LeftBrace) {
		p.block()
	} else {
		p.expect(kind.Semicolon)
	}
	p.b.finishNode()
}

// signature = 'fn' IDENT '(' (param_list (',' param_list)* ','?)? ')' ('->' type_expr)?
func (p *parserState) signature() {
	p.b.startNode(kind.Signature)
	p.bump() // 'fn'
	p.expect(kind.Ident)
	p.expect(kind.LeftParen)
	for !p.eof() && !p.at(kind.RightParen) {
		p.paramList()
		if !p.consume(kind.Comma) {
			break
		}
	}
	p.expect(kind.RightParen)
	if p.consume(kind.Arrow) {
		p.typeExpr()
	}
	p.b.finishNode()
}

// param_list = IDENT (':' type_expr)?
func (p *parserState) paramList() {
	p.b.startNode(kind.ParamList)
	p.expect(kind.Ident)
	if p.consume(kind.Colon) {
		p.typeExpr()
	}
	p.b.finishNode()
}

// constant = 'const' IDENT (':' type_expr)? ('=' expr)? ';'
func (p *parserState) constant() {
	p.b.startNode(kind.Constant)
	p.bump() // 'const'
	p.expect(kind.Ident)
	if p.at(kind.Colon) {
		p.b.startNode(kind.TypeAscription)
		p.bump() // ':'
		p.typeExpr()
		p.b.finishNode()
	}
	if p.consume(kind.Equals) {
		p.expr()
	}
	p.expect(kind.Semicolon)
	p.b.finishNode()
}

// block = '{' stmt* '}'
func (p *parserState) block() {
	p.b.startNode(kind.Block)
	p.expect(kind.LeftBrace)
	for !p.eof() && !p.at(kind.RightBrace) {
		p.stmt()
	}
	p.expect(kind.RightBrace)
	p.b.finishNode()
}

// stmt dispatches on the leading token to one of the statement forms, or
// to a bare expression statement.
func (p *parserState) stmt() {
	switch {
	case p.at(kind.Semicolon):
		p.bump() // empty statement, no wrapping node
	case p.at(kind.LetKw):
		p.stmtLet()
	case p.at(kind.LoopKw):
		p.stmtLoop()
	case p.at(kind.WhileKw):
		p.stmtWhile()
	case p.at(kind.BreakKw):
		p.b.startNode(kind.StmtBreak)
		p.bump()
		p.expect(kind.Semicolon)
		p.b.finishNode()
	case p.at(kind.ContinueKw):
		p.b.startNode(kind.StmtContinue)
		p.bump()
		p.expect(kind.Semicolon)
		p.b.finishNode()
	case p.at(kind.ReturnKw):
		p.b.startNode(kind.StmtReturn)
		p.bump()
		if !p.at(kind.Semicolon) {
			p.expr()
		}
		p.expect(kind.Semicolon)
		p.b.finishNode()
	case p.at(kind.FnKw):
		p.function()
	case p.at(kind.ConstKw):
		p.constant()
	default:
		p.stmtExpr()
	}
}

// stmt_let = 'let' IDENT (':' type_expr)? ('=' expr)? ';'
func (p *parserState) stmtLet() {
	p.b.startNode(kind.StmtLet)
	p.bump() // 'let'
	p.expect(kind.Ident)
	if p.at(kind.Colon) {
		p.b.startNode(kind.TypeAscription)
		p.bump() // ':'
		p.typeExpr()
		p.b.finishNode()
	}
	if p.consume(kind.Equals) {
		p.expr()
	}
	p.expect(kind.Semicolon)
	p.b.finishNode()
}

// stmt_loop = 'loop' block
func (p *parserState) stmtLoop() {
	p.b.startNode(kind.StmtLoop)
	p.bump() // 'loop'
	if p.at(kind.LeftBrace) {
		p.block()
	} else {
		p.errorAt("expected block after 'loop'")
		p.recoverTo(stmtStarters...)
	}
	p.b.finishNode()
}

// stmt_while = 'while' expr block
func (p *parserState) stmtWhile() {
	p.b.startNode(kind.StmtWhile)
	p.bump() // 'while'
	p.exprNoBlockBody()
	if p.at(kind.LeftBrace) {
		p.block()
	} else {
		p.errorAt("expected block after while condition")
		p.recoverTo(stmtStarters...)
	}
	p.b.finishNode()
}

// stmt_expr = expr ';'  (a trailing block-like expression may omit the
// semicolon, matching original_source's statement/expression boundary)
func (p *parserState) stmtExpr() {
	cp := p.b.checkpoint()
	endsInBlock := p.expr()
	if !endsInBlock {
		p.expect(kind.Semicolon)
	} else {
		p.consume(kind.Semicolon)
	}
	p.b.startNodeAt(cp, kind.StmtExpr)
	p.b.finishNode()
}

// BindingPower is the (left, right) binding power pair consulted by the
// Pratt expression loop; assignment operators are right-associative (the
// right power is lower than the left so a chain `a = b = c` nests as
// `a = (b = c)`), every other operator is left-associative.
type bindingPower struct{ left, right int }

func infixBindingPower(k kind.Kind) (bindingPower, bool) {
	switch k {
	case kind.Equals, kind.PlusEquals, kind.MinusEquals, kind.StarEquals, kind.SlashEquals, kind.PercentEquals:
		return bindingPower{left: 2, right: 1}, true
	case kind.OrKw:
		return bindingPower{left: 3, right: 4}, true
	case kind.AndKw:
		return bindingPower{left: 5, right: 6}, true
	case kind.Eq, kind.Ne:
		return bindingPower{left: 7, right: 8}, true
	case kind.Lt, kind.Le, kind.Gt, kind.Ge:
		return bindingPower{left: 9, right: 10}, true
	case kind.Plus, kind.Minus:
		return bindingPower{left: 11, right: 12}, true
	case kind.Star, kind.Slash, kind.Percent:
		return bindingPower{left: 13, right: 14}, true
	default:
		return bindingPower{}, false
	}
}

const prefixBindingPower = 15

// expr parses a complete expression at the lowest binding power. It
// returns whether the parsed expression's outermost form already ends in
// a brace (block, if, loop's containing block is a statement not an
// expr) so stmtExpr can decide whether a trailing ';' is mandatory.
func (p *parserState) expr() bool {
	return p.exprRec(0)
}

// exprNoBlockBody parses a condition expression for while/if: syntactically
// identical to expr, kept as a separate entry point (as in
// original_source) since a future grammar revision may need to exclude
// struct-literal-like forms from condition position.
func (p *parserState) exprNoBlockBody() { p.exprRec(0) }

// exprRec is the Pratt loop: parse one prefix/atom, then repeatedly fold
// in postfix call application and infix/assignment operators whose left
// binding power is at least minBP.
func (p *parserState) exprRec(minBP int) bool {
	cp := p.b.checkpoint()
	endsInBlock := p.exprPrefix()

	for {
		switch {
		case p.at(kind.LeftParen):
			p.exprCallArgs(cp)
			endsInBlock = false
			continue
		}

		bp, ok := infixBindingPower(p.peek())
		if !ok || bp.left < minBP {
			break
		}

		isAssign := assignmentOps[p.peek()]
		p.bump() // operator
		endsInBlock = p.exprRec(bp.right + 1)

		if isAssign {
			p.b.startNodeAt(cp, kind.ExprAssign)
		} else {
			p.b.startNodeAt(cp, kind.ExprInfix)
		}
		p.b.finishNode()
	}

	return endsInBlock
}

// exprCallArgs folds a '(' arg-list ')' application onto the expression
// already open since cp, via the checkpoint mechanism (spec §4.2's
// "left-recursive postfix" note).
func (p *parserState) exprCallArgs(cp Checkpoint) {
	p.b.startNodeAt(cp, kind.ExprCall)
	p.bump() // '('
	for !p.eof() && !p.at(kind.RightParen) {
		p.b.startNode(kind.ExprList)
		p.expr()
		p.b.finishNode()
		if !p.consume(kind.Comma) {
			break
		}
	}
	p.expect(kind.RightParen)
	p.b.finishNode()
}

// exprPrefix parses one atom, parenthesized expr, prefix-op expr, block,
// if-expr, closure, or path — the "nud" half of the Pratt parser.
// It reports whether what it parsed ends in a brace.
func (p *parserState) exprPrefix() bool {
	switch {
	case p.atAny(kind.TrueKw, kind.FalseKw, kind.Int, kind.Float, kind.Char, kind.String):
		p.bump()
		return false
	case p.at(kind.Minus), p.at(kind.NotKw):
		p.b.startNode(kind.ExprPrefix)
		p.bump() // operator
		p.exprRec(prefixBindingPower)
		p.b.finishNode()
		return false
	case p.at(kind.LeftParen):
		p.b.startNode(kind.ExprParen)
		p.bump()
		p.expr()
		p.expect(kind.RightParen)
		p.b.finishNode()
		return false
	case p.at(kind.LeftBrace):
		p.block()
		return true
	case p.at(kind.IfKw):
		p.exprIf()
		return true
	case p.at(kind.FnKw) && p.peekNth(1) == kind.LeftParen:
		p.exprClosure()
		return false
	case p.at(kind.Ident), p.at(kind.PackageKw):
		p.path()
		return false
	default:
		p.errorAt("expected an expression")
		p.b.startNode(kind.ErrorTree)
		if !p.eof() {
			p.bump()
		}
		p.b.finishNode()
		return false
	}
}

// expr_if = 'if' expr block ('else' (block | expr_if))?
func (p *parserState) exprIf() {
	p.b.startNode(kind.ExprIf)
	p.bump() // 'if'
	p.exprNoBlockBody()
	if p.at(kind.LeftBrace) {
		p.block()
	} else {
		p.errorAt("expected block after if condition")
	}
	if p.consume(kind.ElseKw) {
		if p.at(kind.IfKw) {
			p.exprIf()
		} else if p.at(kind.LeftBrace) {
			p.block()
		} else {
			p.errorAt("expected block or 'if' after else")
		}
	}
	p.b.finishNode()
}

// expr_closure = 'fn' '(' (param_list (',' param_list)* ','?)? ')' ('->' type_expr)? expr
func (p *parserState) exprClosure() {
	p.b.startNode(kind.ExprClosure)
	p.bump() // 'fn'
	p.expect(kind.LeftParen)
	for !p.eof() && !p.at(kind.RightParen) {
		p.paramList()
		if !p.consume(kind.Comma) {
			break
		}
	}
	p.expect(kind.RightParen)
	if p.consume(kind.Arrow) {
		p.typeExpr()
	}
	p.expr()
	p.b.finishNode()
}

// path = 'package'? path_component ('.' path_component)*
func (p *parserState) path() {
	p.b.startNode(kind.Path)
	p.consume(kind.PackageKw)
	p.pathComponent()
	for p.at(kind.Dot) {
		p.bump()
		p.pathComponent()
	}
	p.b.finishNode()
}

func (p *parserState) pathComponent() {
	p.b.startNode(kind.PathComponent)
	p.expect(kind.Ident)
	p.b.finishNode()
}
