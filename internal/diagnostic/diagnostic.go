// Package diagnostic implements the Level/Report/Label structural
// contract the rest of narwhalc reports issues through (spec §7). It is
// deliberately presentation-free: original_source's diagnostic/format.rs
// spacious()/compact() renderers are explicitly out of scope (spec's
// Non-goals), so this package stops at the data model a caller would
// feed to a renderer, an LSP transport, or a test assertion.
package diagnostic

import (
	"fmt"
	"sort"

	"github.com/narwhal-lang/narwhalc/internal/text"
)

// Level is the severity of a Report or Label.
type Level int

const (
	Help Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Help:
		return "help"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Label annotates one span within a Report with its own severity and
// message, e.g. "expected expression" at the primary span and "opened
// here" at a related span.
type Label struct {
	Level    Level
	Message  string
	Location text.Span
	// Length, when non-zero, overrides Location's own span length for
	// renderers that want to underline a specific number of columns
	// (mirrors original_source's Label.length field, used when a label's
	// point is inferred from a zero-width parser recovery position).
	Length int
}

// Report is one diagnostic: a primary location, a top-level severity and
// message, an ordered list of Labels, and an optional trailing note.
type Report struct {
	Level    Level
	Message  string
	Location text.Span
	Labels   []Label
	Note     string
}

// New constructs a Report with no labels or note.
func New(level Level, message string, loc text.Span) *Report {
	return &Report{Level: level, Message: message, Location: loc}
}

// WithLabel inserts label into r.Labels in ascending Location.Start order,
// matching original_source's Report::with_label (partition_point-based
// sorted insert) so renderers never need to sort labels themselves.
func (r *Report) WithLabel(label Label) *Report {
	i := sort.Search(len(r.Labels), func(i int) bool {
		return r.Labels[i].Location.Start > label.Location.Start
	})
	r.Labels = append(r.Labels, Label{})
	copy(r.Labels[i+1:], r.Labels[i:])
	r.Labels[i] = label
	return r
}

// WithNote sets r's trailing note and returns r for chaining.
func (r *Report) WithNote(note string) *Report {
	r.Note = note
	return r
}
