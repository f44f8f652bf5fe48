package main

import (
	"fmt"
	"os"

	"github.com/pborman/getopt"

	"github.com/narwhal-lang/narwhalc/internal/index"
	"github.com/narwhal-lang/narwhalc/internal/ir"
)

func runDumpIR(args []string, stdout, stderr *os.File) int {
	set := getopt.New()
	help := set.BoolLong("help", '?', "display this help")
	set.SetParameters("DIR")
	if err := set.Parse(args); err != nil {
		fmt.Fprintf(stderr, "narwhalc dump-ir: %v\n", err)
		return 2
	}
	if *help || len(set.Args()) != 1 {
		set.PrintUsage(stderr)
		return 2
	}

	idx, err := index.Load(set.Args()[0])
	if err != nil {
		fmt.Fprintf(stderr, "narwhalc dump-ir: %v\n", err)
		return 1
	}

	lowered, lowerErrs := ir.Lower(idx)
	for i, def := range lowered.Globals {
		if def == nil {
			continue
		}
		name, _ := idx.Interner.Resolve(def.Name)
		fmt.Fprintf(stdout, "global #%d %s %s\n", i, def.Kind, name)
	}

	for _, e := range lowerErrs {
		fmt.Fprintf(stderr, "%v\n", e)
	}
	if len(lowerErrs) > 0 {
		return 1
	}
	return 0
}
