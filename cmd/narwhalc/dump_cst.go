package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pborman/getopt"

	"github.com/narwhal-lang/narwhalc/internal/syntax/parser"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

func runDumpCST(args []string, stdout, stderr *os.File) int {
	set := getopt.New()
	help := set.BoolLong("help", '?', "display this help")
	set.SetParameters("PATH")
	if err := set.Parse(args); err != nil {
		fmt.Fprintf(stderr, "narwhalc dump-cst: %v\n", err)
		return 2
	}
	if *help || len(set.Args()) != 1 {
		set.PrintUsage(stderr)
		return 2
	}

	path := set.Args()[0]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "narwhalc dump-cst: %v\n", err)
		return 1
	}

	result := parser.Parse(src)
	root := red.NewRoot(result.Tree)
	printNode(stdout, root, 0)

	for _, d := range result.Diagnostics {
		fmt.Fprintf(stderr, "%s: %s (%d..%d)\n", d.Level, d.Message, d.Location.Start, d.Location.End)
	}
	if len(result.Diagnostics) > 0 {
		return 1
	}
	return 0
}

func printNode(w *os.File, n *red.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s@%d..%d\n", indent, n.Kind(), n.Start(), n.End())
	for _, el := range n.Children() {
		if el.Node != nil {
			printNode(w, el.Node, depth+1)
			continue
		}
		t := el.Token
		fmt.Fprintf(w, "%s  %s@%d..%d %q\n", indent, t.Kind(), t.Start(), t.End(), t.Text())
	}
}
