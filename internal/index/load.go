package index

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/narwhal-lang/narwhalc/internal/intern"
	"github.com/narwhal-lang/narwhalc/internal/syntax/ast"
	"github.com/narwhal-lang/narwhalc/internal/syntax/green"
	"github.com/narwhal-lang/narwhalc/internal/syntax/parser"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
	"github.com/narwhal-lang/narwhalc/internal/text"
)

const sourceExt = ".nw"

// Load walks the directory tree rooted at rootDir and builds an Index:
// one Module per directory, source files parsed and their top-level
// items registered as Globals, a reserved "package.nw" filename rejected
// outright (spec §6/§4.4).
func Load(rootDir string) (*Index, error) {
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("index: resolve root: %w", err)
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("index: root %q is not a directory", rootDir)
	}

	idx := &Index{
		Interner:   intern.New(),
		GreenCache: green.NewCache(),
		Version:    1,
	}
	root := newModule(filepath.Base(rootDir), nil)
	idx.Root = root

	if err := loadDir(idx, root, rootDir, rootDir); err != nil {
		return nil, err
	}
	return idx, nil
}

// loadDir populates mod from the directory at dirPath, recursing into
// subdirectories as child modules and loading ".nw" files per the rules
// in spec §4.4/§6.
func loadDir(idx *Index, mod *Module, rootDir, dirPath string) error {
	if !strings.HasPrefix(dirPath, rootDir) {
		return fmt.Errorf("index: cannot load path outside of source tree: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("index: read %s: %w", dirPath, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		full := filepath.Join(dirPath, entry.Name())
		if entry.IsDir() {
			child := newModule(entry.Name(), mod)
			mod.Children[entry.Name()] = child
			if err := loadDir(idx, child, rootDir, full); err != nil {
				return err
			}
			continue
		}

		if filepath.Ext(entry.Name()) != sourceExt {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), sourceExt)
		if stem == "package" {
			return fmt.Errorf("index: reserved filename %s", full)
		}

		target := mod
		if stem != "main" {
			child, ok := mod.Children[stem]
			if !ok {
				child = newModule(stem, mod)
				mod.Children[stem] = child
			}
			target = child
		}
		if err := loadFile(idx, target, rootDir, full); err != nil {
			return err
		}
	}
	return nil
}

// loadFile reads, lexes, and parses one source file, then registers its
// top-level items as Globals (or unresolved imports) on mod.
func loadFile(idx *Index, mod *Module, rootDir, path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("index: read %s: %w", path, err)
	}

	rel, err := filepath.Rel(rootDir, path)
	if err != nil {
		rel = path
	}

	res := parser.Parse(contents)

	h := fnv.New64a()
	h.Write(contents)

	src := &Source{
		Path:       rel,
		Contents:   contents,
		LineBreaks: text.LineBreaks(contents),
		Tree:       res.Tree,
		Hash:       h.Sum64(),
	}
	for _, d := range res.Diagnostics {
		src.ParseErrors = append(src.ParseErrors, d)
	}
	idx.Sources = append(idx.Sources, src)
	sourceIdx := len(idx.Sources) - 1
	mod.Source = sourceIdx

	file := ast.NewFile(red.NewRoot(res.Tree))
	for _, item := range file.Items() {
		registerItem(idx, mod, sourceIdx, item)
	}
	return nil
}

func registerItem(idx *Index, mod *Module, sourceIdx int, item ast.Item) {
	switch v := item.(type) {
	case *ast.Import:
		registerImport(idx, mod, sourceIdx, v)
	case *ast.TypeDef:
		registerGlobal(idx, mod, sourceIdx, GlobalTypeDef, v.Syntax(), nameTokenOf(v))
	case *ast.Function:
		sig, ok := v.Signature()
		var tok = ""
		if ok {
			if n, ok := sig.NameToken(); ok {
				tok = n.Text()
			}
		}
		registerGlobal(idx, mod, sourceIdx, GlobalFunction, v.Syntax(), tok)
	case *ast.Constant:
		nameTok, _ := v.NameToken()
		name := ""
		if nameTok != nil {
			name = nameTok.Text()
		}
		registerGlobal(idx, mod, sourceIdx, GlobalConstant, v.Syntax(), name)
	}
}

func nameTokenOf(t *ast.TypeDef) string {
	tok, ok := t.NameToken()
	if !ok {
		return ""
	}
	return tok.Text()
}

func registerGlobal(idx *Index, mod *Module, sourceIdx int, kind GlobalKind, node *red.Node, name string) {
	g := &Global{
		Name:         idx.Interner.Intern(name),
		Kind:         kind,
		Source:       sourceIdx,
		SyntaxOffset: int(node.Start()),
		Updated:      1,
	}
	idx.Globals = append(idx.Globals, g)
	mod.Globals = append(mod.Globals, GlobalID(len(idx.Globals)-1))
}

func registerImport(idx *Index, mod *Module, sourceIdx int, imp *ast.Import) {
	p, ok := imp.Path()
	if !ok {
		return
	}
	_, absolute := p.Package()
	var components []intern.Key
	for _, c := range p.Components() {
		tok, ok := c.NameToken()
		if !ok {
			continue
		}
		components = append(components, idx.Interner.Intern(tok.Text()))
	}
	mod.Imports = append(mod.Imports, UnresolvedImport{
		Absolute:     absolute,
		Components:   components,
		SyntaxOffset: int(imp.Syntax().Start()),
		Source:       sourceIdx,
	})
}
