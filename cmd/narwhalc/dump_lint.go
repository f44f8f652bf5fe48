package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pborman/getopt"

	"github.com/narwhal-lang/narwhalc/internal/index"
	"github.com/narwhal-lang/narwhalc/internal/lint"
)

func runLint(args []string, stdout, stderr *os.File) int {
	set := getopt.New()
	help := set.BoolLong("help", '?', "display this help")
	set.SetParameters("DIR")
	if err := set.Parse(args); err != nil {
		fmt.Fprintf(stderr, "narwhalc lint: %v\n", err)
		return 2
	}
	if *help || len(set.Args()) != 1 {
		set.PrintUsage(stderr)
		return 2
	}

	idx, err := index.Load(set.Args()[0])
	if err != nil {
		fmt.Fprintf(stderr, "narwhalc lint: %v\n", err)
		return 1
	}

	diags, err := lint.NewDefaultRunner().Run(context.Background(), idx)
	if err != nil {
		fmt.Fprintf(stderr, "narwhalc lint: %v\n", err)
		return 1
	}
	for _, d := range diags {
		fmt.Fprintf(stdout, "%s: %s (%d..%d)\n", d.Level, d.Message, d.Location.Start, d.Location.End)
		for _, l := range d.Labels {
			fmt.Fprintf(stdout, "  %s: %s (%d..%d)\n", l.Level, l.Message, l.Location.Start, l.Location.End)
		}
	}
	if len(diags) > 0 {
		return 1
	}
	return 0
}
