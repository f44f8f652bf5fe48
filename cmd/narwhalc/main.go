// Program narwhalc is a thin debug wrapper around the compiler
// front-end packages: dump-cst prints a source file's concrete syntax
// tree, dump-index prints a directory's module tree, dump-ir prints a
// directory's lowered intermediate representation, lint runs the
// project-wide lint rule set, and lsp serves the editor-facing
// hover/definition/formatting server over stdio. None of these
// subcommands carries a stability contract (spec §1/§6: any
// command-line wrapper is out of scope as a specified surface).
//
// Usage: narwhalc <dump-cst|dump-index|dump-ir|lint|lsp> [--help] [PATH]
//
// Flag parsing follows openconfig-goyang's yang.go: github.com/pborman/getopt
// per subcommand, rather than hand-rolled argv scanning.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: narwhalc <dump-cst|dump-index|dump-ir|lint|lsp> [PATH]")
		return 2
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "dump-cst":
		return runDumpCST(rest, stdout, stderr)
	case "dump-index":
		return runDumpIndex(rest, stdout, stderr)
	case "dump-ir":
		return runDumpIR(rest, stdout, stderr)
	case "lint":
		return runLint(rest, stdout, stderr)
	case "lsp":
		return runLSP(rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "narwhalc: unknown subcommand %q\n", cmd)
		return 2
	}
}
