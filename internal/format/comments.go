package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

// CommentEmitter re-renders a run of leading trivia tokens (Whitespace,
// Newlines, Comment) with normalized spacing and collapsed blank lines.
type CommentEmitter struct {
	Indent        string
	Newline       string
	MaxBlankLines int
}

// EmitLeading renders the trivia tokens preceding a significant token.
// Whitespace is normalized, not preserved byte-for-byte; comment text
// itself is reproduced verbatim.
func (e CommentEmitter) EmitLeading(trivia []*red.Token, indentLevel int) ([]byte, error) {
	norm, err := e.normalize()
	if err != nil {
		return nil, err
	}
	if len(trivia) == 0 {
		return nil, nil
	}

	var out bytes.Buffer
	pendingBreaks := 0
	pendingSpace := false
	atLineStart := false

	for _, tok := range trivia {
		switch tok.Kind() {
		case kind.Whitespace:
			if !atLineStart && pendingBreaks == 0 {
				pendingSpace = true
			}
		case kind.Newlines:
			pendingBreaks += strings.Count(tok.Text(), "\n")
			pendingSpace = false
			atLineStart = true
		case kind.Comment:
			writePendingBreaks(&out, norm.Newline, pendingBreaks, norm.MaxBlankLines)
			if pendingBreaks > 0 {
				atLineStart = true
			}
			pendingBreaks = 0
			if !atLineStart && pendingSpace {
				out.WriteByte(' ')
			}
			if atLineStart {
				out.WriteString(strings.Repeat(norm.Indent, indentLevel))
			}
			out.WriteString(tok.Text())
			atLineStart = false
			pendingSpace = false
		default:
			return nil, fmt.Errorf("unexpected non-trivia token kind %s in leading trivia", tok.Kind())
		}
	}

	if pendingBreaks > 0 {
		writePendingBreaks(&out, norm.Newline, pendingBreaks, norm.MaxBlankLines)
		out.WriteString(strings.Repeat(norm.Indent, indentLevel))
	} else if pendingSpace {
		out.WriteByte(' ')
	}

	return out.Bytes(), nil
}

func (e CommentEmitter) normalize() (CommentEmitter, error) {
	if e.Indent == "" {
		e.Indent = defaultIndent
	}
	if e.Newline == "" {
		e.Newline = "\n"
	}
	if e.Newline != "\n" && e.Newline != "\r\n" {
		return CommentEmitter{}, fmt.Errorf("invalid newline %q", e.Newline)
	}
	if e.MaxBlankLines < 0 {
		return CommentEmitter{}, fmt.Errorf("invalid MaxBlankLines %d", e.MaxBlankLines)
	}
	return e, nil
}

func writePendingBreaks(out *bytes.Buffer, newline string, breaks, maxBlankLines int) {
	if breaks <= 0 {
		return
	}
	limit := maxBlankLines + 1
	limit = max(limit, 1)
	if breaks > limit {
		breaks = limit
	}
	out.WriteString(strings.Repeat(newline, breaks))
}
