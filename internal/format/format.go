package format

import (
	"bytes"
	"context"

	"github.com/narwhal-lang/narwhalc/internal/diagnostic"
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/parser"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

// Source parses and formats source bytes in one step.
func Source(ctx context.Context, src []byte, opts Options) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	normOpts, err := normalizeOptions(opts)
	if err != nil {
		return Result{}, err
	}

	policy, diags := analyzeSourcePolicy(src)
	if !policy.ValidUTF8 {
		return unsafeResult(diags, UnsafeReasonInvalidUTF8, "input contains invalid UTF-8 bytes")
	}

	// A leading byte-order mark is parsed around, not through: parse
	// diagnostics are shifted back to offsets in src and the mark is
	// written back in front of the output.
	body := src
	if policy.HasBOM {
		body = src[len(utf8BOM):]
	}
	parsed := parser.Parse(body)
	if policy.HasBOM {
		for _, d := range parsed.Diagnostics {
			d.Location.Start += text.ByteOffset(len(utf8BOM))
			d.Location.End += text.ByteOffset(len(utf8BOM))
		}
	}
	diags = append(diags, parsed.Diagnostics...)
	if hasUnsafeSyntaxDiagnostics(parsed.Diagnostics) {
		return unsafeResult(diags, UnsafeReasonSyntaxErrors, "syntax diagnostics present (fail-closed policy)")
	}

	out := reprint(red.NewRoot(parsed.Tree), normOpts)
	if policy.HasBOM {
		out = append([]byte(utf8BOM), out...)
	}
	return Result{
		Output:      out,
		Changed:     !bytes.Equal(out, src),
		Diagnostics: diags,
	}, nil
}

func hasUnsafeSyntaxDiagnostics(diags []*diagnostic.Report) bool {
	for _, d := range diags {
		if d.Level == diagnostic.Error {
			return true
		}
	}
	return false
}

func unsafeResult(diags []*diagnostic.Report, reason UnsafeReason, msg string) (Result, error) {
	return Result{Diagnostics: diags}, &ErrUnsafeToFormat{Reason: reason, Message: msg}
}

// reprint walks root's flat token stream, reproducing significant
// tokens verbatim and re-rendering each run of leading trivia tokens
// through CommentEmitter. Indentation tracks `{`/`}` depth only — no
// attempt is made at expression-aware pretty-printing (spec §5).
func reprint(root *red.Node, opts Options) []byte {
	emitter := CommentEmitter{Indent: opts.Indent, MaxBlankLines: opts.MaxBlankLines, Newline: "\n"}
	toks := root.Tokens()

	var out bytes.Buffer
	var pendingTrivia []*red.Token
	depth := 0

	flush := func(indent int) {
		if rendered, err := emitter.EmitLeading(pendingTrivia, indent); err == nil {
			out.Write(rendered)
		} else {
			for _, t := range pendingTrivia {
				out.WriteString(t.Text())
			}
		}
		pendingTrivia = nil
	}

	for _, t := range toks {
		if t.Kind().IsTrivia() {
			pendingTrivia = append(pendingTrivia, t)
			continue
		}
		if t.Kind() == kind.RightBrace {
			depth--
		}
		flush(max(depth, 0))
		out.WriteString(t.Text())
		if t.Kind() == kind.LeftBrace {
			depth++
		}
	}
	flush(max(depth, 0))
	return out.Bytes()
}
