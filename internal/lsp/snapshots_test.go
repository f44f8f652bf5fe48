package lsp

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSnapshotStoreOpenChangeCloseLifecycle(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore()
	uri := "file:///demo.nw"
	openSrc := []byte("fn add(a, b) {\n  return a + b;\n}\n")
	snap, err := store.Open(uri, 1, openSrc)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if snap.Version != 1 {
		t.Fatalf("version=%d, want 1", snap.Version)
	}

	next, err := store.Change(uri, 2, []TextDocumentContentChangeEvent{{
		Text: "fn add(a, b) {\n  return a - b;\n}\n",
	}})
	if err != nil {
		t.Fatalf("Change: %v", err)
	}
	if next.Version != 2 {
		t.Fatalf("version=%d, want 2", next.Version)
	}
	if got := string(next.Source); !strings.Contains(got, "a - b") {
		t.Fatalf("unexpected source after change: %q", got)
	}

	if _, err := store.Change(uri, 2, []TextDocumentContentChangeEvent{{Text: string(next.Source)}}); !errors.Is(err, ErrStaleVersion) {
		t.Fatalf("stale version error = %v, want %v", err, ErrStaleVersion)
	}

	store.Close(uri)
	if _, ok := store.Snapshot(uri); ok {
		t.Fatal("expected snapshot removed after close")
	}
}

func TestSnapshotStoreChangeAllowsInvalidSyntaxAndKeepsDiagnostics(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore()
	uri := "file:///invalid.nw"
	if _, err := store.Open(uri, 1, []byte("fn add(a, b) {\n  return a + b;\n}\n")); err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, err := store.Change(uri, 2, []TextDocumentContentChangeEvent{{Text: "fn add(a, b) {\n  return a +\n"}})
	if err != nil {
		t.Fatalf("Change invalid syntax: %v", err)
	}
	snap, ok := store.Snapshot(uri)
	if !ok {
		t.Fatal("expected snapshot after invalid change")
	}
	if len(snap.Diagnostics) == 0 {
		t.Fatal("expected recoverable parser diagnostics for invalid syntax")
	}
}

func TestSnapshotStoreChangeRejectsUnknownDocument(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore()
	if _, err := store.Change("file:///missing.nw", 1, []TextDocumentContentChangeEvent{{Text: "x"}}); !errors.Is(err, ErrDocumentNotOpen) {
		t.Fatalf("missing doc error = %v, want %v", err, ErrDocumentNotOpen)
	}
}

func TestServerDidOpenDidChangeDidCloseLifecycle(t *testing.T) {
	t.Parallel()

	s := NewServer()
	uri := "file:///server.nw"
	if err := s.DidOpen(context.Background(), DidOpenParams{TextDocument: TextDocumentItem{URI: uri, Version: 1, Text: "fn add(a, b) {\n  return a + b;\n}\n"}}); err != nil {
		t.Fatalf("DidOpen: %v", err)
	}
	if err := s.DidChange(context.Background(), DidChangeParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: "fn add(a, b) {\n  return a * b;\n}\n"}},
	}); err != nil {
		t.Fatalf("DidChange: %v", err)
	}
	snap, ok := s.Store().Snapshot(uri)
	if !ok || !strings.Contains(string(snap.Source), "a * b") {
		t.Fatalf("unexpected snapshot after didChange: ok=%v src=%q", ok, snap.Source)
	}
	if err := s.DidClose(context.Background(), DidCloseParams{TextDocument: TextDocumentIdentifier{URI: uri}}); err != nil {
		t.Fatalf("DidClose: %v", err)
	}
	if _, ok := s.Store().Snapshot(uri); ok {
		t.Fatal("expected document closed")
	}
}
