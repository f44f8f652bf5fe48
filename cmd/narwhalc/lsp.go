package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pborman/getopt"

	"github.com/narwhal-lang/narwhalc/internal/lsp"
)

func runLSP(args []string, stdout, stderr *os.File) int {
	set := getopt.New()
	help := set.BoolLong("help", '?', "display this help")
	set.SetParameters("")
	if err := set.Parse(args); err != nil {
		fmt.Fprintf(stderr, "narwhalc lsp: %v\n", err)
		return 2
	}
	if *help || len(set.Args()) != 0 {
		set.PrintUsage(stderr)
		return 2
	}

	if err := lsp.NewServer().Run(context.Background(), os.Stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "narwhalc lsp: %v\n", err)
		return 1
	}
	return 0
}
