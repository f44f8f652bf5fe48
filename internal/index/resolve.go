package index

import (
	"fmt"

	"github.com/narwhal-lang/narwhalc/internal/intern"
)

// Resolved is the result of walking a syntactic path against the module
// tree: the module the walk ended on, an optional Global id if the walk
// terminated on a declaration rather than a module, and any trailing
// components the caller should treat as member accesses (spec §4.4).
type Resolved struct {
	Module    *Module
	Global    *GlobalID
	Remainder []intern.Key
}

// ResolvePath resolves components against from (if relative) or Root (if
// absolute), preferring a child module over a same-named global at every
// step — the module-wins rule inferred from original_source's walk order
// (spec §9 Open Question, decided and asserted by resolve_test.go).
func (idx *Index) ResolvePath(from *Module, absolute bool, components []intern.Key) (Resolved, error) {
	mod := from
	if absolute {
		mod = idx.Root
	}
	if mod == nil {
		return Resolved{}, fmt.Errorf("index: resolve path: no starting module")
	}

	for i, comp := range components {
		if name, ok := idx.Interner.Resolve(comp); ok {
			if child, ok := mod.Children[name]; ok {
				mod = child
				continue
			}
		}

		if gid, ok := idx.findGlobal(mod, comp); ok {
			return Resolved{Module: mod, Global: &gid, Remainder: components[i+1:]}, nil
		}

		return Resolved{}, fmt.Errorf("index: failed to resolve %q in module %q", nameOrKey(idx, comp), mod.Name)
	}

	return Resolved{Module: mod}, nil
}

func (idx *Index) findGlobal(mod *Module, name intern.Key) (GlobalID, bool) {
	for _, gid := range mod.Globals {
		if idx.Globals[gid].Name == name {
			return gid, true
		}
	}
	return 0, false
}

func nameOrKey(idx *Index, k intern.Key) string {
	if s, ok := idx.Interner.Resolve(k); ok {
		return s
	}
	return fmt.Sprintf("<key %d>", k)
}
