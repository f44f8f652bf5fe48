// Package lexer scans narwhal source bytes into the flat token sequence
// the parser's builder consumes (spec §4.1, §4.2). Its scanning style —
// a byte-index cursor, a leading-trivia/significant-token split, and
// makeErrorToken-style diagnostic emission — follows the teacher's
// internal/lexer; the token set and literal grammar (underscore-separated
// digit groups, hex/binary integers, escaped char/string literals) come
// from original_source's logos-driven token definitions.
package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

// Lex tokenizes src into a lossless token stream, trivia included, always
// ending in a single kind.Eof token whose span is empty at len(src).
func Lex(src []byte) Result {
	s := scanner{src: src}
	s.run()
	return Result{Tokens: s.tokens, Diagnostics: s.diagnostics}
}

type scanner struct {
	src         []byte
	i           int
	tokens      []Token
	diagnostics []Diagnostic
}

func (s *scanner) run() {
	for {
		if s.eof() {
			s.tokens = append(s.tokens, Token{Kind: kind.Eof, Span: span(len(s.src), len(s.src))})
			return
		}

		start := s.i
		switch b := s.src[s.i]; {
		case b == ' ', b == '\t', b == '\v', b == '\f':
			s.scanWhitespace(start)
		case b == '\n':
			s.scanNewlines(start)
		case b == '\r':
			s.i++
			if !s.eof() && s.src[s.i] == '\n' {
				s.i++
			}
			s.tokens = append(s.tokens, Token{Kind: kind.Newlines, Span: span(start, s.i)})
		case b == '/' && s.peekByte(1) == '/':
			s.scanLineComment(start)
		default:
			s.tokens = append(s.tokens, s.scanToken())
		}
	}
}

func (s *scanner) scanWhitespace(start int) {
	for !s.eof() && isHorizontalSpace(s.src[s.i]) {
		s.i++
	}
	s.tokens = append(s.tokens, Token{Kind: kind.Whitespace, Span: span(start, s.i)})
}

func (s *scanner) scanNewlines(start int) {
	for !s.eof() && s.src[s.i] == '\n' {
		s.i++
	}
	s.tokens = append(s.tokens, Token{Kind: kind.Newlines, Span: span(start, s.i)})
}

func (s *scanner) scanLineComment(start int) {
	s.i += 2 // "//"
	for !s.eof() && s.src[s.i] != '\n' {
		s.i++
	}
	s.tokens = append(s.tokens, Token{Kind: kind.Comment, Span: span(start, s.i)})
}

func (s *scanner) scanToken() Token {
	start := s.i
	b := s.src[s.i]

	switch {
	case isIdentStart(b):
		s.i++
		for !s.eof() && isIdentPart(s.src[s.i]) {
			s.i++
		}
		word := string(s.src[start:s.i])
		k := kind.Ident
		if kw, ok := kind.Keyword(word); ok {
			k = kw
		}
		return Token{Kind: k, Span: span(start, s.i)}
	case isDigit(b):
		return s.scanNumber()
	case b == '\'':
		return s.scanChar()
	case b == '"':
		return s.scanString()
	case b >= utf8.RuneSelf:
		r, size := utf8.DecodeRune(s.src[s.i:])
		if r == utf8.RuneError && size == 1 {
			s.i++
			return s.makeErrorToken(start, s.i, DiagnosticInvalidByte, "invalid UTF-8 byte")
		}
		s.i += size
		return s.makeErrorToken(start, s.i, DiagnosticUnknownCharacter, "unsupported non-ASCII token character")
	default:
		return s.scanSymbol()
	}
}

func (s *scanner) scanSymbol() Token {
	start := s.i
	b := s.src[s.i]
	two := func(k kind.Kind) Token {
		s.i += 2
		return Token{Kind: k, Span: span(start, s.i)}
	}
	one := func(k kind.Kind) Token {
		s.i++
		return Token{Kind: k, Span: span(start, s.i)}
	}

	switch b {
	case ';':
		return one(kind.Semicolon)
	case '(':
		return one(kind.LeftParen)
	case ')':
		return one(kind.RightParen)
	case ':':
		return one(kind.Colon)
	case ',':
		return one(kind.Comma)
	case '{':
		return one(kind.LeftBrace)
	case '}':
		return one(kind.RightBrace)
	case '.':
		return one(kind.Dot)
	case '-':
		if s.peekByte(1) == '>' {
			return two(kind.Arrow)
		}
		if s.peekByte(1) == '=' {
			return two(kind.MinusEquals)
		}
		return one(kind.Minus)
	case '+':
		if s.peekByte(1) == '=' {
			return two(kind.PlusEquals)
		}
		return one(kind.Plus)
	case '*':
		if s.peekByte(1) == '=' {
			return two(kind.StarEquals)
		}
		return one(kind.Star)
	case '/':
		if s.peekByte(1) == '=' {
			return two(kind.SlashEquals)
		}
		return one(kind.Slash)
	case '%':
		if s.peekByte(1) == '=' {
			return two(kind.PercentEquals)
		}
		return one(kind.Percent)
	case '=':
		if s.peekByte(1) == '=' {
			return two(kind.Eq)
		}
		return one(kind.Equals)
	case '!':
		if s.peekByte(1) == '=' {
			return two(kind.Ne)
		}
		s.i++
		return s.makeErrorToken(start, s.i, DiagnosticUnknownCharacter, "unknown character '!'")
	case '<':
		if s.peekByte(1) == '=' {
			return two(kind.Le)
		}
		return one(kind.Lt)
	case '>':
		if s.peekByte(1) == '=' {
			return two(kind.Ge)
		}
		return one(kind.Gt)
	default:
		s.i++
		return s.makeErrorToken(start, s.i, DiagnosticUnknownCharacter, fmt.Sprintf("unknown character %q", b))
	}
}

// scanNumber handles decimal, hex (0x), and binary (0b) integers, each
// allowing underscore digit-group separators, and decimal floats with an
// optional fraction and exponent.
func (s *scanner) scanNumber() Token {
	start := s.i

	if s.src[s.i] == '0' && (s.peekByte(1) == 'x' || s.peekByte(1) == 'X') {
		s.i += 2
		digitsStart := s.i
		for !s.eof() && (isHexDigit(s.src[s.i]) || s.src[s.i] == '_') {
			s.i++
		}
		if s.i == digitsStart {
			return s.makeErrorToken(start, s.i, DiagnosticInvalidNumber, "invalid hex literal")
		}
		return Token{Kind: kind.Int, Span: span(start, s.i)}
	}

	if s.src[s.i] == '0' && (s.peekByte(1) == 'b' || s.peekByte(1) == 'B') {
		s.i += 2
		digitsStart := s.i
		for !s.eof() && (s.src[s.i] == '0' || s.src[s.i] == '1' || s.src[s.i] == '_') {
			s.i++
		}
		if s.i == digitsStart {
			return s.makeErrorToken(start, s.i, DiagnosticInvalidNumber, "invalid binary literal")
		}
		return Token{Kind: kind.Int, Span: span(start, s.i)}
	}

	s.scanDigitGroup()

	k := kind.Int
	if s.peekByte(0) == '.' && isDigit(s.peekByte(1)) {
		k = kind.Float
		s.i++ // '.'
		s.scanDigitGroup()
	}
	if s.tryScanExponent() {
		k = kind.Float
	}

	return Token{Kind: k, Span: span(start, s.i)}
}

func (s *scanner) scanDigitGroup() {
	for !s.eof() && (isDigit(s.src[s.i]) || s.src[s.i] == '_') {
		s.i++
	}
}

func (s *scanner) tryScanExponent() bool {
	if s.eof() || (s.src[s.i] != 'e' && s.src[s.i] != 'E') {
		return false
	}
	j := s.i + 1
	if j < len(s.src) && (s.src[j] == '+' || s.src[j] == '-') {
		j++
	}
	if j >= len(s.src) || !isDigit(s.src[j]) {
		return false
	}
	s.i = j
	for !s.eof() && isDigit(s.src[s.i]) {
		s.i++
	}
	return true
}

func (s *scanner) scanChar() Token {
	start := s.i
	s.i++ // opening quote
	for !s.eof() {
		switch s.src[s.i] {
		case '\'':
			s.i++
			return Token{Kind: kind.Char, Span: span(start, s.i)}
		case '\\':
			s.i++
			if !s.eof() {
				s.i++
			}
		case '\n':
			return s.makeErrorToken(start, s.i, DiagnosticUnterminatedString, "unterminated char literal")
		default:
			s.i++
		}
	}
	return s.makeErrorToken(start, s.i, DiagnosticUnterminatedString, "unterminated char literal")
}

func (s *scanner) scanString() Token {
	start := s.i
	s.i++ // opening quote
	for !s.eof() {
		switch s.src[s.i] {
		case '"':
			s.i++
			return Token{Kind: kind.String, Span: span(start, s.i)}
		case '\\':
			s.i++
			if !s.eof() {
				s.i++
			}
		case '\n':
			return s.makeErrorToken(start, s.i, DiagnosticUnterminatedString, "unterminated string literal")
		default:
			s.i++
		}
	}
	return s.makeErrorToken(start, s.i, DiagnosticUnterminatedString, "unterminated string literal")
}

func (s *scanner) makeErrorToken(start, end int, code DiagnosticCode, msg string) Token {
	sp := span(start, end)
	s.diagnostics = append(s.diagnostics, Diagnostic{Code: code, Message: msg, Span: sp})
	return Token{Kind: kind.ErrorToken, Span: sp}
}

func (s *scanner) eof() bool { return s.i >= len(s.src) }

func (s *scanner) peekByte(delta int) byte {
	j := s.i + delta
	if j < 0 || j >= len(s.src) {
		return 0
	}
	return s.src[j]
}

func span(start, end int) text.Span {
	return text.Span{Start: text.ByteOffset(start), End: text.ByteOffset(end)}
}

func isHorizontalSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
