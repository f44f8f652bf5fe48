package format

import (
	"bytes"
	"context"
	"testing"

	"github.com/narwhal-lang/narwhalc/internal/diagnostic"
	"github.com/narwhal-lang/narwhalc/internal/testutil"
)

func TestNormalizeOptionsDefaultsAndValidation(t *testing.T) {
	t.Parallel()

	got, err := normalizeOptions(Options{})
	if err != nil {
		t.Fatalf("normalizeOptions default: %v", err)
	}
	if got.Indent != defaultIndent {
		t.Fatalf("Indent = %q, want %q", got.Indent, defaultIndent)
	}
	if got.MaxBlankLines != defaultMaxBlankLines {
		t.Fatalf("MaxBlankLines = %d, want %d", got.MaxBlankLines, defaultMaxBlankLines)
	}

	if _, err := normalizeOptions(Options{MaxBlankLines: -1}); err == nil {
		t.Fatal("expected error for negative MaxBlankLines")
	}
}

func TestSourcePreservesBOMAndReportsMixedNewlines(t *testing.T) {
	t.Parallel()

	src := []byte("\xEF\xBB\xBFfn f() {\r\n  return 1;\n}\n")
	res, err := Source(context.Background(), src, Options{})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if len(res.Output) == 0 {
		t.Fatal("expected formatted output")
	}
	if !bytes.HasPrefix(res.Output, []byte("\xEF\xBB\xBF")) {
		t.Fatalf("expected BOM preserved, got %q", res.Output)
	}

	var sawMixed bool
	for _, d := range res.Diagnostics {
		if d.Level == diagnostic.Help {
			sawMixed = true
			break
		}
	}
	if !sawMixed {
		t.Fatal("expected mixed newline formatter diagnostic")
	}
}

func TestSourceRefusesInvalidUTF8(t *testing.T) {
	t.Parallel()

	res, err := Source(context.Background(), []byte{0xff}, Options{})
	if err == nil {
		t.Fatal("expected ErrUnsafeToFormat")
	}
	if !IsErrUnsafeToFormat(err) {
		t.Fatalf("unexpected error type: %T %v", err, err)
	}

	var unsafe *ErrUnsafeToFormat
	if !AsUnsafeToFormat(err, &unsafe) {
		t.Fatal("AsUnsafeToFormat = false")
	}
	if unsafe.Reason != UnsafeReasonInvalidUTF8 {
		t.Fatalf("unsafe reason = %q, want %q", unsafe.Reason, UnsafeReasonInvalidUTF8)
	}
	if len(res.Diagnostics) == 0 {
		t.Fatal("expected invalid UTF-8 formatter diagnostic")
	}
}

func TestSourceReprintsSignificantTokensByteForByte(t *testing.T) {
	t.Parallel()

	src := []byte("fn add(a, b) {\n  return a+b;\n}\n")
	res, err := Source(context.Background(), src, Options{})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if !bytes.Contains(res.Output, []byte("a+b")) {
		t.Fatalf("expected significant tokens reproduced verbatim (no expression-aware spacing), got %q", res.Output)
	}
}

func TestSourceMatchesGoldenFixtures(t *testing.T) {
	t.Parallel()

	cases, err := testutil.FormatGoldenCases()
	if err != nil {
		t.Fatalf("FormatGoldenCases: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("expected at least one formatter golden case")
	}

	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			t.Parallel()

			input := testutil.ReadFile(t, c.InputPath)
			want := testutil.ReadFile(t, c.ExpectedPath)
			res, err := Source(context.Background(), input, Options{})
			if err != nil {
				t.Fatalf("Source: %v", err)
			}
			if !bytes.Equal(res.Output, want) {
				t.Fatalf("formatted output mismatch for %s:\n--- got ---\n%s\n--- want ---\n%s", c.Name, res.Output, want)
			}
		})
	}
}

func TestSourceCollapsesExcessBlankLines(t *testing.T) {
	t.Parallel()

	src := []byte("fn f() {\n\n\n\n  return 1;\n}\n")
	res, err := Source(context.Background(), src, Options{MaxBlankLines: 1})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if bytes.Contains(res.Output, []byte("\n\n\n\n")) {
		t.Fatalf("expected blank line run collapsed, got %q", res.Output)
	}
}
