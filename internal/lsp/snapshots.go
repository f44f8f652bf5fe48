package lsp

import (
	"errors"
	"slices"
	"sync"

	"github.com/narwhal-lang/narwhalc/internal/diagnostic"
	"github.com/narwhal-lang/narwhalc/internal/syntax/parser"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
	itext "github.com/narwhal-lang/narwhalc/internal/text"
)

// Snapshot is an immutable parsed document state. narwhalc's parser is a
// cheap hand-written recursive-descent pass over a flat token stream, so
// a snapshot is always a full reparse of the document's current text —
// there is no incremental tree-sitter-style edit application to preserve.
type Snapshot struct {
	URI         string
	Version     int32
	Source      []byte
	Tree        *red.Node
	Diagnostics []*diagnostic.Report
	LineIndex   *itext.LineIndex
}

// Bytes returns a copy of the snapshot source bytes.
func (s *Snapshot) Bytes() []byte {
	if s == nil {
		return nil
	}
	return slices.Clone(s.Source)
}

// SnapshotStore stores versioned parsed documents.
type SnapshotStore struct {
	mu   sync.RWMutex
	docs map[string]*Snapshot
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{docs: make(map[string]*Snapshot)}
}

func parseSnapshot(uri string, version int32, src []byte) *Snapshot {
	result := parser.Parse(src)
	return &Snapshot{
		URI:         uri,
		Version:     version,
		Source:      src,
		Tree:        red.NewRoot(result.Tree),
		Diagnostics: result.Diagnostics,
		LineIndex:   itext.NewLineIndex(src),
	}
}

// Open parses and stores a document snapshot.
func (s *SnapshotStore) Open(uri string, version int32, src []byte) (*Snapshot, error) {
	if s == nil {
		return nil, errors.New("nil SnapshotStore")
	}
	snap := parseSnapshot(uri, version, src)
	s.mu.Lock()
	s.docs[uri] = snap
	s.mu.Unlock()
	return snap, nil
}

// Change reparses the document with its full replacement text and replaces
// the snapshot. Full sync is all narwhalc's TextDocumentSyncKindFull
// capability ever sends, so changes[len-1] (or any single full-text entry)
// is the new document body.
func (s *SnapshotStore) Change(uri string, version int32, changes []TextDocumentContentChangeEvent) (*Snapshot, error) {
	if s == nil {
		return nil, errors.New("nil SnapshotStore")
	}
	s.mu.RLock()
	cur, ok := s.docs[uri]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrDocumentNotOpen
	}
	if version <= cur.Version {
		return nil, ErrStaleVersion
	}
	if len(changes) == 0 {
		return cur, nil
	}
	// Full-document sync: the last change in the batch is the complete text.
	text := changes[len(changes)-1].Text

	next := parseSnapshot(uri, version, []byte(text))
	s.mu.Lock()
	s.docs[uri] = next
	s.mu.Unlock()
	return next, nil
}

// Close removes a tracked document snapshot.
func (s *SnapshotStore) Close(uri string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Snapshot returns the current snapshot for uri.
func (s *SnapshotStore) Snapshot(uri string) (*Snapshot, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.docs[uri]
	return snap, ok
}

// SnapshotAtVersion returns the current snapshot if the version matches exactly.
func (s *SnapshotStore) SnapshotAtVersion(uri string, version int32) (*Snapshot, error) {
	snap, ok := s.Snapshot(uri)
	if !ok {
		return nil, ErrDocumentNotOpen
	}
	if snap.Version != version {
		return nil, ErrStaleVersion
	}
	return snap, nil
}
