package format

import (
	"testing"

	"github.com/narwhal-lang/narwhalc/internal/syntax/parser"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

// leadingTrivia returns the run of trivia tokens preceding the first
// significant token in src.
func leadingTrivia(t *testing.T, src []byte) []*red.Token {
	t.Helper()
	result := parser.Parse(src)
	root := red.NewRoot(result.Tree)
	var trivia []*red.Token
	for _, tok := range root.Tokens() {
		if !tok.Kind().IsTrivia() {
			break
		}
		trivia = append(trivia, tok)
	}
	return trivia
}

func TestCommentEmitterPreservesCommentBytesAndCapsBlankLines(t *testing.T) {
	t.Parallel()

	src := []byte("//a\n   //b\n\n\nfoo")
	got, err := (CommentEmitter{
		Indent:        "  ",
		Newline:       "\n",
		MaxBlankLines: 1,
	}).EmitLeading(leadingTrivia(t, src), 1)
	if err != nil {
		t.Fatalf("EmitLeading: %v", err)
	}

	want := "//a\n  //b\n\n  "
	if string(got) != want {
		t.Fatalf("EmitLeading = %q, want %q", got, want)
	}
}

func TestCommentEmitterNormalizesCRLF(t *testing.T) {
	t.Parallel()

	src := []byte("// a\n\nfoo")
	got, err := (CommentEmitter{
		Indent:        "\t",
		Newline:       "\r\n",
		MaxBlankLines: 2,
	}).EmitLeading(leadingTrivia(t, src), 1)
	if err != nil {
		t.Fatalf("EmitLeading: %v", err)
	}

	want := "// a\r\n\r\n\t"
	if string(got) != want {
		t.Fatalf("EmitLeading = %q, want %q", got, want)
	}
}
