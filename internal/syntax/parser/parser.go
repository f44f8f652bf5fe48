// Package parser implements narwhalc's hand-written, event-driven,
// recursive-descent parser (spec §4.2). It consumes the flat token
// stream internal/syntax/lexer produces and drives a builder to produce
// a green.Node tree: every byte of the input — including trivia and
// lexical error tokens — ends up as a leaf somewhere in the result.
//
// Control flow (skip_trivia/next/peek/at/expect/checkpoint/recover_to)
// is translated directly from original_source's parser.rs Parser type;
// the grammar functions in grammar.go are translated one-for-one from
// original_source's parser/grammar.rs.
package parser

import (
	"github.com/narwhal-lang/narwhalc/internal/diagnostic"
	"github.com/narwhal-lang/narwhalc/internal/syntax/green"
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/lexer"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

// Result is the output of parsing one source buffer to completion.
type Result struct {
	Tree        *green.Node
	Diagnostics []*diagnostic.Report
}

// Parse lexes and parses src as a complete narwhal file (the `file`
// grammar rule: a sequence of items to EOF).
func Parse(src []byte) Result {
	lexed := lexer.Lex(src)
	p := &parserState{
		src:  src,
		toks: lexed.Tokens,
		b:    newBuilder(green.NewCache()),
	}
	for _, d := range lexed.Diagnostics {
		p.diags = append(p.diags, diagnostic.New(diagnostic.Error, d.Message, d.Span))
	}

	p.file()

	return Result{Tree: p.b.finish(), Diagnostics: p.diags}
}

// parserState holds the cursor over the raw (trivia-included) token
// stream plus the builder under construction.
type parserState struct {
	src   []byte
	toks  []lexer.Token
	pos   int // raw index into toks, including trivia
	b     *builder
	diags []*diagnostic.Report
}

// ASSIGNMENT_OPS/TRIVIA_TOKENS constants from parser.rs, renamed to Go
// convention. assignmentOps is consulted by the expr Pratt loop; trivia
// is consulted by skipTrivia.
var assignmentOps = map[kind.Kind]bool{
	kind.Equals: true, kind.PlusEquals: true, kind.MinusEquals: true,
	kind.StarEquals: true, kind.SlashEquals: true, kind.PercentEquals: true,
}

func isTrivia(k kind.Kind) bool { return k.IsTrivia() }

// skipTrivia flushes every leading trivia token at the cursor into the
// builder as a leaf of whatever node is currently open, without changing
// the logical position peek/at reason about.
func (p *parserState) skipTrivia() {
	for p.pos < len(p.toks) && isTrivia(p.toks[p.pos].Kind) {
		t := p.toks[p.pos]
		p.b.token(t.Kind, string(p.src[t.Span.Start:t.Span.End]))
		p.pos++
	}
}

// peek returns the kind of the next significant token without consuming
// it (after flushing any leading trivia into the builder).
func (p *parserState) peek() kind.Kind {
	p.skipTrivia()
	if p.pos >= len(p.toks) {
		return kind.Eof
	}
	return p.toks[p.pos].Kind
}

// peekNth looks n significant tokens ahead (0 = next), without consuming
// anything or flushing trivia into the builder (used only for decisions,
// e.g. distinguishing a param's bare name from a typed one).
func (p *parserState) peekNth(n int) kind.Kind {
	i := p.pos
	seen := 0
	for i < len(p.toks) {
		if isTrivia(p.toks[i].Kind) {
			i++
			continue
		}
		if seen == n {
			return p.toks[i].Kind
		}
		seen++
		i++
	}
	return kind.Eof
}

func (p *parserState) at(k kind.Kind) bool { return p.peek() == k }

func (p *parserState) atAny(ks ...kind.Kind) bool {
	got := p.peek()
	for _, k := range ks {
		if got == k {
			return true
		}
	}
	return false
}

func (p *parserState) eof() bool { return p.peek() == kind.Eof }

// bump flushes leading trivia then consumes and emits exactly one
// significant token, whatever its kind.
func (p *parserState) bump() {
	p.skipTrivia()
	if p.pos >= len(p.toks) {
		return
	}
	t := p.toks[p.pos]
	p.b.token(t.Kind, string(p.src[t.Span.Start:t.Span.End]))
	p.pos++
}

// consume bumps if the next significant token is k and reports whether
// it did.
func (p *parserState) consume(k kind.Kind) bool {
	if !p.at(k) {
		return false
	}
	p.bump()
	return true
}

// expect consumes k or records an error at the current position without
// advancing past whatever unexpected token is there, so a caller's
// recover_to call can still see it.
func (p *parserState) expect(k kind.Kind) bool {
	if p.consume(k) {
		return true
	}
	p.errorExpected(k)
	return false
}

func (p *parserState) currentSpan() text.Span {
	p.skipTrivia()
	if p.pos >= len(p.toks) {
		if len(p.toks) == 0 {
			return text.Span{}
		}
		last := p.toks[len(p.toks)-1]
		return last.Span
	}
	return p.toks[p.pos].Span
}

func (p *parserState) errorExpected(k kind.Kind) {
	sp := p.currentSpan()
	got := p.peek()
	p.diags = append(p.diags, diagnostic.New(diagnostic.Error,
		"expected "+k.String()+", found "+got.String(), sp))
}

func (p *parserState) errorAt(msg string) {
	p.diags = append(p.diags, diagnostic.New(diagnostic.Error, msg, p.currentSpan()))
}

// recoverTo wraps tokens in an ErrorTree node until the next significant
// token is a member of stopSet or the stream is exhausted, mirroring
// parser.rs's recover_to. It always consumes at least one token so a
// caller looping on a non-progressing condition cannot spin forever.
func (p *parserState) recoverTo(stopSet ...kind.Kind) {
	if p.eof() || p.atAny(stopSet...) {
		return
	}
	p.b.startNode(kind.ErrorTree)
	p.bump()
	for !p.eof() && !p.atAny(stopSet...) {
		p.bump()
	}
	p.b.finishNode()
}
