// Package format reprints a narwhal source file's green tree with
// normalized trivia. The language's expression grammar (Pratt
// precedence, closures) is out of budget to fully pretty-print here, so
// formatting degrades to trivia normalization only: significant token
// text is reproduced byte-for-byte, and only whitespace/newline/comment
// runs between tokens are normalized (spec §5 "format package").
package format

import (
	"errors"
	"fmt"

	"github.com/narwhal-lang/narwhalc/internal/diagnostic"
)

const (
	defaultIndent        = "  "
	defaultMaxBlankLines = 2
)

// Options configure formatter behavior.
type Options struct {
	Indent        string
	MaxBlankLines int
}

// Result is the full-document formatting result.
type Result struct {
	Output      []byte
	Changed     bool
	Diagnostics []*diagnostic.Report
}

// UnsafeReason identifies why a request was refused as unsafe.
type UnsafeReason string

const (
	// UnsafeReasonInvalidUTF8 indicates invalid UTF-8 bytes in the source input.
	UnsafeReasonInvalidUTF8 UnsafeReason = "invalid_utf8"
	// UnsafeReasonSyntaxErrors indicates fail-closed refusal due to parser/lexer error diagnostics.
	UnsafeReasonSyntaxErrors UnsafeReason = "syntax_errors"
)

// ErrUnsafeToFormat is returned when formatting is refused due to unsafe input state.
type ErrUnsafeToFormat struct {
	Reason  UnsafeReason
	Message string
}

func (e *ErrUnsafeToFormat) Error() string {
	if e == nil {
		return "unsafe to format"
	}
	if e.Message == "" {
		return fmt.Sprintf("unsafe to format (%s)", e.Reason)
	}
	return fmt.Sprintf("unsafe to format (%s): %s", e.Reason, e.Message)
}

// IsErrUnsafeToFormat reports whether err is a formatter safety refusal.
func IsErrUnsafeToFormat(err error) bool {
	var target *ErrUnsafeToFormat
	return AsUnsafeToFormat(err, &target)
}

// AsUnsafeToFormat reports whether err contains an ErrUnsafeToFormat.
func AsUnsafeToFormat(err error, target **ErrUnsafeToFormat) bool {
	if err == nil || target == nil {
		return false
	}
	return errors.As(err, target)
}

func normalizeOptions(opts Options) (Options, error) {
	if opts.MaxBlankLines < 0 {
		return Options{}, fmt.Errorf("invalid MaxBlankLines %d", opts.MaxBlankLines)
	}
	if opts.Indent == "" {
		opts.Indent = defaultIndent
	}
	if opts.MaxBlankLines == 0 {
		opts.MaxBlankLines = defaultMaxBlankLines
	}
	return opts, nil
}
