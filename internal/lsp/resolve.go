package lsp

import (
	"github.com/narwhal-lang/narwhalc/internal/index"
	"github.com/narwhal-lang/narwhalc/internal/intern"
	"github.com/narwhal-lang/narwhalc/internal/syntax/ast"
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

// pathHit is a `Path` node found at a cursor offset together with the
// clicked component's index within it.
type pathHit struct {
	path      *ast.Path
	component int
}

// findPathAtOffset returns the innermost `Path` node (used for imports,
// type references, and value references alike — spec §4.4) covering
// offset, and which of its dotted components the cursor sits on.
func findPathAtOffset(root *red.Node, offset text.ByteOffset) (pathHit, bool) {
	var best *red.Node
	var walk func(n *red.Node)
	walk = func(n *red.Node) {
		if offset < n.Start() || offset > n.End() {
			return
		}
		if n.Kind() == kind.Path {
			best = n
		}
		for _, child := range n.NodeChildren() {
			walk(child)
		}
	}
	walk(root)
	if best == nil {
		return pathHit{}, false
	}

	p := ast.NewPath(best)
	for i, c := range p.Components() {
		tok, ok := c.NameToken()
		if !ok {
			continue
		}
		if tok.Span().Contains(offset) {
			return pathHit{path: p, component: i}, true
		}
	}
	return pathHit{}, false
}

// findModuleForSource walks the module tree looking for the module that
// loaded sourceIdx, the mirror of ir.findModuleForGlobal for sources
// instead of globals.
func findModuleForSource(mod *index.Module, sourceIdx int) *index.Module {
	if mod.Source == sourceIdx {
		return mod
	}
	for _, child := range mod.Children {
		if found := findModuleForSource(child, sourceIdx); found != nil {
			return found
		}
	}
	return nil
}

// findDeclItem re-walks src's top-level items looking for the one whose
// syntax starts at offset (mirrors ir.findDeclItem; duplicated here since
// internal/ir does not export it and the LSP layer has no other reason to
// depend on internal/ir).
func findDeclItem(src *index.Source, offset text.ByteOffset) (ast.Item, bool) {
	file := ast.NewFile(red.NewRoot(src.Tree))
	for _, item := range file.Items() {
		if item.Syntax().Start() == offset {
			return item, true
		}
	}
	return nil, false
}

// declNameToken returns the identifier token naming item's declaration,
// used to report a precise definition range instead of the whole item's span.
func declNameToken(item ast.Item) (*red.Token, bool) {
	switch v := item.(type) {
	case *ast.TypeDef:
		return v.NameToken()
	case *ast.Function:
		sig, ok := v.Signature()
		if !ok {
			return nil, false
		}
		return sig.NameToken()
	case *ast.Constant:
		return v.NameToken()
	default:
		return nil, false
	}
}

// resolution is what a resolved path hit points at: a Global (function,
// type, or constant declaration) or, if resolution stopped on a module
// with no further global, a module with nothing more specific to point to.
type resolution struct {
	idx    *index.Index
	global *index.Global
	// declSource/declToken locate the Global's declaration precisely.
	declSource *index.Source
	declToken  *red.Token
	moduleName string
	// ClickedSpan is the span of the path component the request's
	// position resolved through, for Hover's optional highlight range.
	ClickedSpan text.Span
}

// resolveAtOffset finds the Path at offset in src, resolves its
// clicked-through prefix against idx, and locates the declaration it
// points to. It does not follow import aliases the way internal/ir's
// lowering pass does — a path whose first component is an alias bound by
// a sibling `import` statement will fail to resolve here. This is a
// deliberate scope reduction of the read-only hover/definition surface
// (see DESIGN.md "internal/lsp" entry).
func resolveAtOffset(idx *index.Index, src *index.Source, srcIdx int, offset text.ByteOffset) (resolution, bool) {
	root := red.NewRoot(src.Tree)
	hit, ok := findPathAtOffset(root, offset)
	if !ok {
		return resolution{}, false
	}

	mod := findModuleForSource(idx.Root, srcIdx)
	if mod == nil {
		return resolution{}, false
	}

	components := pathComponentKeys(idx, hit.path)
	if components == nil {
		return resolution{}, false
	}
	clickedTok, ok := hit.path.Components()[hit.component].NameToken()
	if !ok {
		return resolution{}, false
	}
	clickedSpan := clickedTok.Span()
	_, absolute := hit.path.Package()

	resolved, err := idx.ResolvePath(mod, absolute, components[:hit.component+1])
	if err != nil {
		return resolution{}, false
	}
	if len(resolved.Remainder) > 0 {
		// The clicked component resolved through a Global's member
		// access chain rather than to a Global or Module directly;
		// narwhalc's hover/definition does not follow field access.
		return resolution{}, false
	}
	if resolved.Global == nil {
		return resolution{idx: idx, moduleName: resolved.Module.Name, ClickedSpan: clickedSpan}, true
	}

	g := idx.Globals[*resolved.Global]
	declSrc := idx.Sources[g.Source]
	item, ok := findDeclItem(declSrc, text.ByteOffset(g.SyntaxOffset))
	if !ok {
		return resolution{idx: idx, global: g, ClickedSpan: clickedSpan}, true
	}
	tok, _ := declNameToken(item)
	return resolution{idx: idx, global: g, declSource: declSrc, declToken: tok, ClickedSpan: clickedSpan}, true
}

func pathComponentKeys(idx *index.Index, p *ast.Path) []intern.Key {
	comps := p.Components()
	out := make([]intern.Key, 0, len(comps))
	for _, c := range comps {
		tok, ok := c.NameToken()
		if !ok {
			return nil
		}
		out = append(out, idx.Interner.Intern(tok.Text()))
	}
	return out
}

// hoverText renders r as LSP hover markup.
func (r resolution) hoverText() string {
	if r.global != nil {
		name, _ := r.idx.Interner.Resolve(r.global.Name)
		return r.global.Kind.String() + " " + name
	}
	return "module " + r.moduleName
}

// location returns the definition target for r, if it has a precise one.
func (r resolution) location(pathToURI func(string) string) (Location, bool) {
	if r.declSource == nil || r.declToken == nil {
		return Location{}, false
	}
	li := newLineIndexForSource(r.declSource)
	rng, err := lspRangeFromSpan(li, r.declToken.Span())
	if err != nil {
		return Location{}, false
	}
	return Location{URI: pathToURI(r.declSource.Path), Range: rng}, true
}
