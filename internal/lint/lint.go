// Package lint runs project-wide checks over an index.Index. Its rule
// runner shape follows the teacher's internal/lint package (a Rule
// interface plus a Runner that aggregates and sorts diagnostics); the
// Thrift-specific rules it ran are replaced with the one rule narwhal's
// module-builder invariant (spec §3: a module may not declare two
// globals under the same name) actually calls for.
package lint

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/narwhal-lang/narwhalc/internal/diagnostic"
	"github.com/narwhal-lang/narwhalc/internal/index"
)

// DiagnosticSource is the LSP diagnostic source used by lint rules.
const DiagnosticSource = "narwhalc.lint"

// Rule is a lint check that can emit diagnostics for a loaded index.
type Rule interface {
	ID() string
	Description() string
	Run(ctx context.Context, idx *index.Index) ([]*diagnostic.Report, error)
}

// Runner executes lint rules and returns aggregated diagnostics.
type Runner struct {
	rules []Rule
}

// NewRunner builds a lint runner from a rule set.
func NewRunner(rules ...Rule) *Runner {
	return &Runner{rules: slices.Clone(rules)}
}

// NewDefaultRunner builds the default lint rule set.
func NewDefaultRunner() *Runner {
	return NewRunner(DuplicateGlobalNameRule{})
}

// Run executes all configured rules and returns a sorted diagnostic list.
func (r *Runner) Run(ctx context.Context, idx *index.Index) ([]*diagnostic.Report, error) {
	if idx == nil {
		return nil, errors.New("nil index")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil || len(r.rules) == 0 {
		return []*diagnostic.Report{}, nil
	}

	out := make([]*diagnostic.Report, 0, 8)
	for _, rule := range r.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		diags, err := rule.Run(ctx, idx)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID(), err)
		}
		out = append(out, diags...)
	}

	SortDiagnostics(out)
	return out, nil
}

// SortDiagnostics orders diagnostics deterministically for stable output.
func SortDiagnostics(diags []*diagnostic.Report) {
	if len(diags) < 2 {
		return
	}
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Location.Start != b.Location.Start {
			return a.Location.Start < b.Location.Start
		}
		if a.Location.End != b.Location.End {
			return a.Location.End < b.Location.End
		}
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.Message < b.Message
	})
}
