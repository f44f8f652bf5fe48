package diagnostic_test

import (
	"testing"

	"github.com/narwhal-lang/narwhalc/internal/diagnostic"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

func TestWithLabelKeepsAscendingOrder(t *testing.T) {
	t.Parallel()

	r := diagnostic.New(diagnostic.Error, "type mismatch", text.Span{Start: 10, End: 20})
	r.WithLabel(diagnostic.Label{Level: diagnostic.Error, Message: "here", Location: text.Span{Start: 30, End: 31}})
	r.WithLabel(diagnostic.Label{Level: diagnostic.Help, Message: "declared here", Location: text.Span{Start: 5, End: 6}})
	r.WithLabel(diagnostic.Label{Level: diagnostic.Help, Message: "middle", Location: text.Span{Start: 15, End: 16}})

	if len(r.Labels) != 3 {
		t.Fatalf("len(Labels) = %d, want 3", len(r.Labels))
	}
	for i := 1; i < len(r.Labels); i++ {
		if r.Labels[i-1].Location.Start > r.Labels[i].Location.Start {
			t.Fatalf("labels not sorted: %+v", r.Labels)
		}
	}
}

func TestWithNoteChains(t *testing.T) {
	t.Parallel()

	r := diagnostic.New(diagnostic.Warning, "unused import", text.Span{}).WithNote("remove it or use it")
	if r.Note != "remove it or use it" {
		t.Fatalf("Note = %q", r.Note)
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	cases := map[diagnostic.Level]string{
		diagnostic.Help:    "help",
		diagnostic.Warning: "warning",
		diagnostic.Error:   "error",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", level, got, want)
		}
	}
}
