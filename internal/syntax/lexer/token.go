package lexer

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

// Token is one lexical token or trivia span, emitted in input order. The
// parser's builder consumes this flat sequence, attaching any trivia
// tokens it sees as leaves under whatever node is currently open (spec
// §4.2) rather than as a side channel hung off the following token.
type Token struct {
	Kind kind.Kind
	Span text.Span
}

// DiagnosticCode identifies a lexer-level issue.
type DiagnosticCode string

const (
	DiagnosticInvalidByte        DiagnosticCode = "LEX_INVALID_BYTE"
	DiagnosticUnknownCharacter   DiagnosticCode = "LEX_UNKNOWN_CHARACTER"
	DiagnosticUnterminatedString DiagnosticCode = "LEX_UNTERMINATED_STRING"
	DiagnosticUnterminatedBlock  DiagnosticCode = "LEX_UNTERMINATED_BLOCK_COMMENT"
	DiagnosticInvalidNumber      DiagnosticCode = "LEX_INVALID_NUMBER"
)

// Diagnostic is a lexer-level issue with source location.
type Diagnostic struct {
	Code    DiagnosticCode
	Message string
	Span    text.Span
}

// Result is the output of lexing a source buffer: a flat, lossless
// sequence of tokens (significant tokens, trivia, and any error tokens)
// terminated by a single Eof token, plus any diagnostics raised along
// the way. Tokens and diagnostics are kept in two separate slices.
type Result struct {
	Tokens      []Token
	Diagnostics []Diagnostic
}
