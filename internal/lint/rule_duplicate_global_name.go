package lint

import (
	"context"

	"github.com/narwhal-lang/narwhalc/internal/diagnostic"
	"github.com/narwhal-lang/narwhalc/internal/index"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

// DuplicateGlobalNameRule flags a module that declares two globals
// (type/function/constant, in any combination) under the same name.
// Spec §3's module-builder invariant treats this as an error condition
// at the module-construction level; this rule re-derives it over an
// already-loaded index so a caller gets located, orderable diagnostics
// instead of index.Load refusing to build the module at all.
type DuplicateGlobalNameRule struct{}

func (DuplicateGlobalNameRule) ID() string { return "duplicate-global-name" }

func (DuplicateGlobalNameRule) Description() string {
	return "a module must not declare two globals under the same name"
}

func (DuplicateGlobalNameRule) Run(ctx context.Context, idx *index.Index) ([]*diagnostic.Report, error) {
	var out []*diagnostic.Report
	walkModules(idx.Root, func(mod *index.Module) {
		seen := make(map[string]*index.Global)
		for _, gid := range mod.Globals {
			g := idx.Globals[gid]
			if g == nil {
				continue
			}
			name, ok := idx.Interner.Resolve(g.Name)
			if !ok {
				continue
			}
			if first, dup := seen[name]; dup {
				out = append(out, diagnostic.New(diagnostic.Error,
					"duplicate global \""+name+"\" in this module", globalPoint(g)).
					WithLabel(diagnostic.Label{
						Level:    diagnostic.Help,
						Message:  "first declared here",
						Location: globalPoint(first),
					}))
				continue
			}
			seen[name] = g
		}
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return out, nil
}

func walkModules(mod *index.Module, visit func(*index.Module)) {
	if mod == nil {
		return
	}
	visit(mod)
	for _, child := range mod.Children {
		walkModules(child, visit)
	}
}

// globalPoint returns a zero-width span at g's declaring node start.
// The declaring node's real extent isn't reconstructed here (that would
// require re-walking the owning Source's AST, as internal/ir does for
// lowering); a point location is enough for a lint diagnostic to anchor
// on, same as a parser recovery position (diagnostic.Label.Length).
func globalPoint(g *index.Global) text.Span {
	off := text.ByteOffset(g.SyntaxOffset)
	return text.Span{Start: off, End: off}
}
