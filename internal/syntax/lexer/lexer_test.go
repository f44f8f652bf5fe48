package lexer

import (
	"testing"

	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
)

func kindsOf(toks []Token) []kind.Kind {
	out := make([]kind.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexSignificantTokensSkipsNoBytes(t *testing.T) {
	t.Parallel()

	src := []byte("fn main() -> i32 { return 0; }")
	res := Lex(src)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}

	last := res.Tokens[len(res.Tokens)-1]
	if last.Kind != kind.Eof {
		t.Fatalf("last token = %v, want Eof", last.Kind)
	}
	if last.Span.Start != last.Span.End {
		t.Fatalf("Eof span not empty: %+v", last.Span)
	}

	var end int
	for _, tok := range res.Tokens {
		if int(tok.Span.Start) != end {
			t.Fatalf("gap in token stream before %v at %d, previous end %d", tok.Kind, tok.Span.Start, end)
		}
		end = int(tok.Span.End)
	}
	if end != len(src) {
		t.Fatalf("tokens cover %d bytes, want %d", end, len(src))
	}
}

func TestLexKeywordsVsIdent(t *testing.T) {
	t.Parallel()

	res := Lex([]byte("fn functional"))
	toks := kindsOf(res.Tokens)
	if toks[0] != kind.FnKw {
		t.Fatalf("toks[0] = %v, want FnKw", toks[0])
	}
	if toks[2] != kind.Ident {
		t.Fatalf("toks[2] = %v, want Ident (got %v)", toks[2], toks)
	}
}

func TestLexTwoByteOperators(t *testing.T) {
	t.Parallel()

	cases := map[string]kind.Kind{
		"->": kind.Arrow,
		"==": kind.Eq,
		"!=": kind.Ne,
		"<=": kind.Le,
		">=": kind.Ge,
		"+=": kind.PlusEquals,
		"-=": kind.MinusEquals,
		"*=": kind.StarEquals,
		"/=": kind.SlashEquals,
		"%=": kind.PercentEquals,
	}
	for src, want := range cases {
		res := Lex([]byte(src))
		if len(res.Diagnostics) != 0 {
			t.Fatalf("%s: unexpected diagnostics: %+v", src, res.Diagnostics)
		}
		if got := res.Tokens[0].Kind; got != want {
			t.Errorf("Lex(%q)[0] = %v, want %v", src, got, want)
		}
		if res.Tokens[0].Span.End != 2 {
			t.Errorf("Lex(%q)[0].Span = %+v, want end 2", src, res.Tokens[0].Span)
		}
	}
}

func TestLexIntegerBases(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"0x2A", "0b1010", "1_000_000", "42"} {
		res := Lex([]byte(src))
		if len(res.Diagnostics) != 0 {
			t.Errorf("Lex(%q): unexpected diagnostics: %+v", src, res.Diagnostics)
		}
		if got := res.Tokens[0].Kind; got != kind.Int {
			t.Errorf("Lex(%q)[0] = %v, want Int", src, got)
		}
	}
}

func TestLexFloatWithExponent(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"1.5", ".5e+1", "3e10", "2.0E-3"} {
		res := Lex([]byte(src))
		if len(res.Diagnostics) != 0 {
			t.Errorf("Lex(%q): unexpected diagnostics: %+v", src, res.Diagnostics)
		}
	}

	res := Lex([]byte("1.5"))
	if res.Tokens[0].Kind != kind.Float {
		t.Fatalf("Lex(%q)[0] = %v, want Float", "1.5", res.Tokens[0].Kind)
	}
}

func TestLexStringAndCharEscapes(t *testing.T) {
	t.Parallel()

	res := Lex([]byte(`"a\"b" 'x' '\n'`))
	toks := kindsOf(res.Tokens)
	if toks[0] != kind.String {
		t.Fatalf("toks[0] = %v, want String", toks[0])
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}
}

func TestLexUnterminatedStringEmitsErrorToken(t *testing.T) {
	t.Parallel()

	res := Lex([]byte(`"unterminated` + "\n"))
	if res.Tokens[0].Kind != kind.ErrorToken {
		t.Fatalf("toks[0] = %v, want ErrorToken", res.Tokens[0].Kind)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != DiagnosticUnterminatedString {
		t.Fatalf("diagnostics = %+v, want one DiagnosticUnterminatedString", res.Diagnostics)
	}
}

func TestLexTriviaPreservedInStream(t *testing.T) {
	t.Parallel()

	res := Lex([]byte("fn  // comment\nmain"))
	toks := kindsOf(res.Tokens)
	want := []kind.Kind{kind.FnKw, kind.Whitespace, kind.Comment, kind.Newlines, kind.Ident, kind.Eof}
	if len(toks) != len(want) {
		t.Fatalf("toks = %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("toks[%d] = %v, want %v", i, toks[i], want[i])
		}
	}
}

func TestLexUnknownCharacterRecorded(t *testing.T) {
	t.Parallel()

	res := Lex([]byte("fn $ main"))
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != DiagnosticUnknownCharacter {
		t.Fatalf("diagnostics = %+v, want one DiagnosticUnknownCharacter", res.Diagnostics)
	}
}
