package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pborman/getopt"

	"github.com/narwhal-lang/narwhalc/internal/index"
)

func runDumpIndex(args []string, stdout, stderr *os.File) int {
	set := getopt.New()
	help := set.BoolLong("help", '?', "display this help")
	set.SetParameters("DIR")
	if err := set.Parse(args); err != nil {
		fmt.Fprintf(stderr, "narwhalc dump-index: %v\n", err)
		return 2
	}
	if *help || len(set.Args()) != 1 {
		set.PrintUsage(stderr)
		return 2
	}

	idx, err := index.Load(set.Args()[0])
	if err != nil {
		fmt.Fprintf(stderr, "narwhalc dump-index: %v\n", err)
		return 1
	}

	printModule(stdout, idx, idx.Root, 0)

	var hadErrors bool
	for _, src := range idx.Sources {
		for _, d := range src.ParseErrors {
			hadErrors = true
			fmt.Fprintf(stderr, "%s: %s: %s (%d..%d)\n", src.Path, d.Level, d.Message, d.Location.Start, d.Location.End)
		}
	}
	if hadErrors {
		return 1
	}
	return 0
}

func printModule(w *os.File, idx *index.Index, mod *index.Module, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%smodule %s\n", indent, moduleLabel(mod))

	for _, gid := range mod.Globals {
		g := idx.Globals[gid]
		name, _ := idx.Interner.Resolve(g.Name)
		fmt.Fprintf(w, "%s  %s %s\n", indent, g.Kind, name)
	}
	for _, imp := range mod.Imports {
		fmt.Fprintf(w, "%s  import %s\n", indent, importLabel(idx, imp))
	}

	names := make([]string, 0, len(mod.Children))
	for name := range mod.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printModule(w, idx, mod.Children[name], depth+1)
	}
}

func moduleLabel(mod *index.Module) string {
	if mod.Name == "" {
		return "<root>"
	}
	return mod.Name
}

func importLabel(idx *index.Index, imp index.UnresolvedImport) string {
	parts := make([]string, len(imp.Components))
	for i, c := range imp.Components {
		parts[i], _ = idx.Interner.Resolve(c)
	}
	prefix := ""
	if imp.Absolute {
		prefix = "::"
	}
	return prefix + strings.Join(parts, ".")
}
