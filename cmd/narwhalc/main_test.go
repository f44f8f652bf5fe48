package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunDumpCSTPrintsTreeForValidSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.nw")
	if err := os.WriteFile(path, []byte("fn f() {\n  return 1;\n}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()

	code := run([]string{"dump-cst", path}, w, w)
	w.Close()
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
}

func TestRunLintReportsDuplicateGlobalName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.nw"), []byte("fn dup() {}\nfn dup() {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.nw"), []byte("fn dup() {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()

	code := run([]string{"lint", dir}, w, w)
	w.Close()
	if code != 1 {
		t.Fatalf("run() = %d, want 1 (duplicate global found)", code)
	}
}

func TestRunLintCleanProjectExitsZero(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.nw"), []byte("fn one() {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()

	code := run([]string{"lint", dir}, w, w)
	w.Close()
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
}

func TestRunRejectsUnknownSubcommand(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	code := run([]string{"bogus"}, w, w)
	if code != 2 {
		t.Fatalf("run() = %d, want 2", code)
	}
}
