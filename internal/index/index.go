// Package index builds a project-wide view of a narwhal source tree: a
// nested Module hierarchy mirroring the directory layout, a flat arena of
// every top-level Global declaration, and per-file Sources holding each
// file's parsed green tree (spec §4.4). It is grounded on
// original_source's index.rs and index/source.rs; the directory-walk
// conventions (module-per-directory, "main" file contributes to the
// enclosing module) additionally follow teacher's internal/testutil
// corpus-walking style and openconfig-goyang's file.go.
package index

import (
	"github.com/narwhal-lang/narwhalc/internal/diagnostic"
	"github.com/narwhal-lang/narwhalc/internal/intern"
	"github.com/narwhal-lang/narwhalc/internal/syntax/green"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

// GlobalID identifies one entry in an Index's global arena.
type GlobalID int

// GlobalKind distinguishes what a top-level item declares.
type GlobalKind int

const (
	GlobalTypeDef GlobalKind = iota
	GlobalFunction
	GlobalConstant
)

func (k GlobalKind) String() string {
	switch k {
	case GlobalTypeDef:
		return "type"
	case GlobalFunction:
		return "function"
	case GlobalConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Global is one top-level declaration, tracked independently of the
// Module tree so that lowering and cross-module references can cheaply
// address it by id.
type Global struct {
	Name intern.Key
	Kind GlobalKind
	// Source is the Source the declaration was parsed from.
	Source int
	// SyntaxOffset is the byte offset of the declaring node, used to
	// recover its red.Node view on demand without storing one directly
	// (the green tree, not the Global, owns that structure).
	SyntaxOffset int

	// Updated is set to 1 when the Global is registered and never
	// changes afterward; present so a future incremental recomputation
	// pass has a version field to compare without this build
	// implementing incremental recomputation itself (spec §1 non-goal;
	// mirrors original_source's Global.updated field, which the same
	// non-goal keeps un-bumped past construction there too).
	Updated int
}

// UnresolvedImport is a syntactic import path collected while loading a
// Module, not yet checked against the project tree.
type UnresolvedImport struct {
	Absolute   bool
	Components []intern.Key
	// SyntaxOffset locates the Import node for diagnostics.
	SyntaxOffset int
	Source       int
}

// Module is one node of the project's module tree: either a directory or
// a non-"main" source file beneath one.
type Module struct {
	Name     string
	Parent   *Module
	Children map[string]*Module
	Globals  []GlobalID
	Imports  []UnresolvedImport

	// Source is the index into Index.Sources this module's own file (if
	// any) was parsed from; -1 for a directory module with no main.nw.
	Source int

	// Updated mirrors Global.Updated: set to 1 at construction, never
	// bumped afterward (spec §1 non-goal — see Global.Updated).
	Updated int
}

func newModule(name string, parent *Module) *Module {
	return &Module{Name: name, Parent: parent, Children: make(map[string]*Module), Source: -1, Updated: 1}
}

// Source is one loaded ".nw" file: its path, contents, line-break table,
// parsed tree, and parse diagnostics.
type Source struct {
	// Path is the file's path relative to the index root, matching
	// original_source's convention of stripping the root prefix.
	Path        string
	Contents    []byte
	LineBreaks  []text.ByteOffset
	Tree        *green.Node
	ParseErrors []*diagnostic.Report
	Hash        uint64
}

// Index is a fully loaded project: the module tree, the global arena,
// every loaded source, the interner those structures were built with,
// and a green-node cache. The Interner is exclusive to this Index and
// mutated only during Load. GreenCache is created empty by Load and is
// not used by it: each parser.Parse call builds its own cache. Once
// Load returns, every field here is read-only.
type Index struct {
	Root     *Module
	Globals  []*Global
	Sources  []*Source
	Interner *intern.Interner
	GreenCache *green.Cache

	// Version is 1 for every Index that Load returns, since Load always
	// builds a fresh Index; present for the same reason Global.Updated
	// and Module.Updated are (original_source's index.rs Version type).
	Version int
}
