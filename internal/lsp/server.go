package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/narwhal-lang/narwhalc/internal/diagnostic"
	fmtengine "github.com/narwhal-lang/narwhalc/internal/format"
	"github.com/narwhal-lang/narwhalc/internal/index"
	itext "github.com/narwhal-lang/narwhalc/internal/text"
)

// Server is narwhalc's LSP server: an in-memory store of parsed document
// snapshots for sync/formatting, and a per-request disk reload of the
// enclosing project's index for hover and go-to-definition (index.Load
// has no in-memory-document API to incrementally update, so cross-file
// resolution always rereads the project from disk).
type Server struct {
	store *SnapshotStore

	mu            sync.Mutex
	root          string
	shutdown      bool
	exitRequested bool

	reqMu            sync.Mutex
	requestCancels   map[string]context.CancelFunc
	pendingCancelled map[string]struct{}
}

// NewServer creates a new LSP server instance.
func NewServer() *Server {
	return &Server{
		store:            NewSnapshotStore(),
		requestCancels:   make(map[string]context.CancelFunc),
		pendingCancelled: make(map[string]struct{}),
	}
}

// Store returns the backing snapshot store (primarily for tests).
func (s *Server) Store() *SnapshotStore {
	if s == nil {
		return nil
	}
	return s.store
}

// Run serves JSON-RPC/LSP messages using Content-Length framing.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if s == nil {
		return errors.New("nil Server")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	br := bufio.NewReader(in)
	bw := bufio.NewWriter(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := readFramedMessage(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			_ = s.writeErrorResponse(bw, nil, jsonRPCParseError, err.Error())
			_ = bw.Flush()
			continue
		}
		if len(body) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			_ = s.writeErrorResponse(bw, nil, jsonRPCParseError, err.Error())
			_ = bw.Flush()
			continue
		}
		if req.JSONRPC != "" && req.JSONRPC != JSONRPCVersion {
			_ = s.writeErrorResponse(bw, req.ID, jsonRPCInvalidRequest, "unsupported jsonrpc version")
			_ = bw.Flush()
			continue
		}
		if req.Method == "" {
			continue
		}

		if err := s.dispatch(ctx, bw, req); err != nil {
			if errors.Is(err, ErrShutdownRequested) {
				return nil
			}
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
	}
}

//nolint:funcorder // dispatch is kept near Run for readability of request flow.
func (s *Server) dispatch(ctx context.Context, w *bufio.Writer, req Request) error {
	isRequest := len(req.ID) != 0
	if isRequest {
		var cancel context.CancelFunc
		ctx, cancel = s.beginRequestContext(ctx, req.ID)
		defer cancel()
		defer s.endRequestContext(req.ID)
	}

	writeResp := func(result any) error {
		if !isRequest {
			return nil
		}
		return s.writeResponse(w, Response{JSONRPC: JSONRPCVersion, ID: req.ID, Result: result})
	}
	writeErr := func(code int, msg string) error {
		if !isRequest {
			return nil
		}
		return s.writeErrorResponse(w, req.ID, code, msg)
	}

	switch req.Method {
	case "initialize":
		var p InitializeParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &p); err != nil {
				return writeErr(jsonRPCInvalidParams, err.Error())
			}
		}
		res, err := s.Initialize(ctx, p)
		if err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return writeResp(res)
	case "shutdown":
		if err := s.Shutdown(ctx); err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return writeResp(struct{}{})
	case "exit":
		s.Exit()
		return ErrShutdownRequested
	case "$/cancelRequest":
		var p CancelParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		s.cancelRequest(p)
		return nil
	case "textDocument/didOpen":
		var p DidOpenParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		if err := s.DidOpen(ctx, p); err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		if err := s.publishDiagnosticsForURI(w, p.TextDocument.URI); err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return nil
	case "textDocument/didChange":
		var p DidChangeParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		if err := s.DidChange(ctx, p); err != nil {
			code := jsonRPCInternalError
			switch {
			case errors.Is(err, ErrStaleVersion):
				code = lspErrorContentModified
			case errors.Is(err, ErrDocumentNotOpen):
				code = jsonRPCInvalidParams
			}
			return writeErr(code, err.Error())
		}
		if err := s.publishDiagnosticsForURI(w, p.TextDocument.URI); err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return nil
	case "textDocument/didClose":
		var p DidCloseParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		if err := s.DidClose(ctx, p); err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		if err := s.publishClearedDiagnostics(w, p.TextDocument.URI); err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return nil
	case "textDocument/formatting":
		var p DocumentFormattingParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		edits, err := s.Formatting(ctx, p)
		if err != nil {
			return writeErr(lspErrorCodeForFormatting(err), err.Error())
		}
		return writeResp(edits)
	case "textDocument/hover":
		var p HoverParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		hover, err := s.Hover(ctx, p)
		if err != nil {
			return writeErr(lspErrorCodeForQuery(err), err.Error())
		}
		return writeResp(hover)
	case "textDocument/definition":
		var p DefinitionParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		locs, err := s.Definition(ctx, p)
		if err != nil {
			return writeErr(lspErrorCodeForQuery(err), err.Error())
		}
		return writeResp(locs)
	default:
		// Notifications with no handler are ignored; unknown requests
		// are reported to the client.
		return writeErr(jsonRPCMethodNotFound, "method not found")
	}
}

// Initialize handles the LSP initialize request.
func (s *Server) Initialize(ctx context.Context, p InitializeParams) (InitializeResult, error) {
	_ = ctx
	if p.RootURI != nil {
		if root, err := uriToPath(*p.RootURI); err == nil {
			s.mu.Lock()
			s.root = root
			s.mu.Unlock()
		}
	}
	return InitializeResult{Capabilities: DefaultServerCapabilities()}, nil
}

// Shutdown handles the LSP shutdown request. It is idempotent.
func (s *Server) Shutdown(ctx context.Context) error {
	_ = ctx
	if s == nil {
		return errors.New("nil Server")
	}
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
	return nil
}

// Exit handles the LSP exit notification.
func (s *Server) Exit() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.exitRequested = true
	s.mu.Unlock()
}

// DidOpen parses and stores the opened document snapshot.
func (s *Server) DidOpen(ctx context.Context, p DidOpenParams) error {
	_ = ctx
	store, err := s.requireStore()
	if err != nil {
		return err
	}
	_, err = store.Open(p.TextDocument.URI, p.TextDocument.Version, []byte(p.TextDocument.Text))
	return err
}

// DidChange reparses the document against its new full text.
func (s *Server) DidChange(ctx context.Context, p DidChangeParams) error {
	_ = ctx
	store, err := s.requireStore()
	if err != nil {
		return err
	}
	_, err = store.Change(p.TextDocument.URI, p.TextDocument.Version, p.ContentChanges)
	return err
}

// DidClose removes the document snapshot if present.
func (s *Server) DidClose(ctx context.Context, p DidCloseParams) error {
	_ = ctx
	store, err := s.requireStore()
	if err != nil {
		return err
	}
	store.Close(p.TextDocument.URI)
	return nil
}

// Formatting handles textDocument/formatting. narwhalc's format package
// only normalizes trivia (spec §5's pretty-printing scope reduction), so
// this is a whole-document operation; narwhalc has no rangeFormatting.
func (s *Server) Formatting(ctx context.Context, p DocumentFormattingParams) ([]TextEdit, error) {
	snap, err := s.formattingSnapshot(p.TextDocument.URI, p.Version)
	if err != nil {
		return nil, err
	}
	res, err := fmtengine.Source(ctx, snap.Source, formattingOptionsFromLSP(p.Options))
	if err != nil {
		return nil, err
	}
	if !res.Changed {
		return []TextEdit{}, nil
	}
	fullRange, err := fullDocumentRange(snap.LineIndex)
	if err != nil {
		return nil, err
	}
	return []TextEdit{{
		Range:   fullRange,
		NewText: string(res.Output),
	}}, nil
}

// Hover handles textDocument/hover: resolve the path component under the
// cursor against the enclosing project and report what it names.
func (s *Server) Hover(ctx context.Context, p HoverParams) (*Hover, error) {
	_ = ctx
	res, li, ok, err := s.resolveRequestPosition(p.TextDocumentPositionParams)
	if err != nil || !ok {
		return nil, err
	}
	h := &Hover{Contents: MarkupContent{Kind: "plaintext", Value: res.hoverText()}}
	if rng, err := lspRangeFromSpan(li, res.ClickedSpan); err == nil {
		h.Range = &rng
	}
	return h, nil
}

// Definition handles textDocument/definition.
func (s *Server) Definition(ctx context.Context, p DefinitionParams) ([]Location, error) {
	_ = ctx
	res, _, ok, err := s.resolveRequestPosition(p.TextDocumentPositionParams)
	if err != nil || !ok {
		return []Location{}, err
	}
	docPath, err := uriToPath(p.TextDocument.URI)
	if err != nil {
		return []Location{}, err
	}
	// Source.Path is relative to the project root.
	root := s.projectRoot(docPath)
	loc, ok := res.location(func(rel string) string { return pathToURI(filepath.Join(root, rel)) })
	if !ok {
		return []Location{}, nil
	}
	return []Location{loc}, nil
}

// resolveRequestPosition loads the project index rooted at the document's
// project root, locates its Source, and resolves the path under
// p.Position. It returns the requesting document's own LineIndex (for
// converting the resolved hover range back to UTF-16), not the declaring
// file's — callers that need the declaration's coordinates build those
// from resolution.declSource directly.
func (s *Server) resolveRequestPosition(p TextDocumentPositionParams) (resolution, *itext.LineIndex, bool, error) {
	snap, ok := s.Store().Snapshot(p.TextDocument.URI)
	if !ok {
		return resolution{}, nil, false, ErrDocumentNotOpen
	}
	offset, err := snap.LineIndex.UTF16PositionToOffset(itext.UTF16Position{
		Line: p.Position.Line, Character: p.Position.Character,
	})
	if err != nil {
		return resolution{}, nil, false, err
	}

	path, err := uriToPath(p.TextDocument.URI)
	if err != nil {
		return resolution{}, nil, false, err
	}
	root := s.projectRoot(path)
	idx, err := index.Load(root)
	if err != nil {
		return resolution{}, nil, false, err
	}
	// Source.Path is relative to the loaded root.
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return resolution{}, nil, false, nil
	}
	srcIdx, src, ok := findSourceByPath(idx, rel)
	if !ok {
		return resolution{}, nil, false, nil
	}
	res, ok := resolveAtOffset(idx, src, srcIdx, offset)
	if !ok {
		return resolution{}, nil, false, nil
	}
	return res, snap.LineIndex, true, nil
}

func (s *Server) projectRoot(docPath string) string {
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	if root != "" {
		return root
	}
	return filepath.Dir(docPath)
}

func findSourceByPath(idx *index.Index, path string) (int, *index.Source, bool) {
	for i, src := range idx.Sources {
		if filepath.Clean(src.Path) == filepath.Clean(path) {
			return i, src, true
		}
	}
	return 0, nil, false
}

func (s *Server) writeResponse(w *bufio.Writer, resp Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return writeFramedMessage(w, body)
}

func (s *Server) writeErrorResponse(w *bufio.Writer, id json.RawMessage, code int, msg string) error {
	return s.writeResponse(w, Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &ResponseError{Code: code, Message: msg},
	})
}

func (s *Server) requireStore() (*SnapshotStore, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("nil Server")
	}
	return s.store, nil
}

func (s *Server) formattingSnapshot(uri string, version *int32) (*Snapshot, error) {
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}
	if version != nil {
		return store.SnapshotAtVersion(uri, *version)
	}
	snap, ok := store.Snapshot(uri)
	if !ok {
		return nil, ErrDocumentNotOpen
	}
	return snap, nil
}

// publishDiagnosticsForURI publishes the snapshot's own parse diagnostics.
// Project-wide lint diagnostics (internal/lint) are not folded in here: a
// diagnostic.Report's byte Location is only meaningful relative to its own
// Source, and the shared diagnostic.Report type carries no field
// identifying which Source produced it, so there is no sound way to
// attribute a cross-file lint finding to one document's LSP diagnostics
// list. Lint stays wired through `narwhalc lint` instead (see DESIGN.md).
func (s *Server) publishDiagnosticsForURI(w *bufio.Writer, uri string) error {
	store, err := s.requireStore()
	if err != nil {
		return err
	}
	snap, ok := store.Snapshot(uri)
	if !ok {
		return nil
	}
	diags, err := lspDiagnosticsFromReports(snap.LineIndex, snap.Diagnostics)
	if err != nil {
		return err
	}
	version := snap.Version
	return s.writeNotification(w, "textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diags,
	})
}

func (s *Server) publishClearedDiagnostics(w *bufio.Writer, uri string) error {
	return s.writeNotification(w, "textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []Diagnostic{},
	})
}

func (s *Server) writeNotification(w *bufio.Writer, method string, params any) error {
	body, err := json.Marshal(struct {
		JSONRPC string `json:"jsonrpc"`
		Method  string `json:"method"`
		Params  any    `json:"params,omitempty"`
	}{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}
	return writeFramedMessage(w, body)
}

// cancelRequest records or triggers cancellation for a request id.
func (s *Server) cancelRequest(p CancelParams) {
	if s == nil {
		return
	}
	key := requestIDKey(p.ID)
	if key == "" {
		return
	}
	s.reqMu.Lock()
	cancel := s.requestCancels[key]
	if cancel != nil {
		delete(s.requestCancels, key)
	}
	s.pendingCancelled[key] = struct{}{}
	s.reqMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Server) beginRequestContext(parent context.Context, id json.RawMessage) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	key := requestIDKey(id)
	if s == nil || key == "" {
		return context.WithCancel(parent)
	}
	ctx, cancel := context.WithCancel(parent)
	s.reqMu.Lock()
	s.requestCancels[key] = cancel
	if _, ok := s.pendingCancelled[key]; ok {
		delete(s.pendingCancelled, key)
		cancel()
	}
	s.reqMu.Unlock()
	return ctx, cancel
}

func (s *Server) endRequestContext(id json.RawMessage) {
	if s == nil {
		return
	}
	key := requestIDKey(id)
	if key == "" {
		return
	}
	s.reqMu.Lock()
	delete(s.requestCancels, key)
	delete(s.pendingCancelled, key)
	s.reqMu.Unlock()
}

func requestIDKey(id json.RawMessage) string {
	if len(id) == 0 {
		return ""
	}
	return string(id)
}

func formattingOptionsFromLSP(in FormattingOptions) fmtengine.Options {
	opts := fmtengine.Options{}
	if in.InsertSpaces && in.TabSize > 0 {
		opts.Indent = strings.Repeat(" ", in.TabSize)
	}
	return opts
}

func fullDocumentRange(li *itext.LineIndex) (Range, error) {
	if li == nil {
		return Range{}, errors.New("nil line index")
	}
	end, err := li.OffsetToUTF16Position(li.SourceLen())
	if err != nil {
		return Range{}, err
	}
	return Range{
		Start: Position{Line: 0, Character: 0},
		End:   Position{Line: end.Line, Character: end.Character},
	}, nil
}

func lspDiagnosticsFromReports(li *itext.LineIndex, reports []*diagnostic.Report) ([]Diagnostic, error) {
	out := make([]Diagnostic, 0, len(reports))
	for _, d := range reports {
		rng, err := lspRangeFromSpan(li, d.Location)
		if err != nil {
			return nil, err
		}
		out = append(out, Diagnostic{
			Range:    rng,
			Severity: lspSeverityForLevel(d.Level),
			Message:  d.Message,
		})
	}
	return out, nil
}

func lspRangeFromSpan(li *itext.LineIndex, sp itext.Span) (Range, error) {
	if li == nil {
		return Range{}, errors.New("nil line index")
	}
	clamped := clampSpanToSource(sp, li.SourceLen())
	rng, err := li.UTF16RangeForSpan(clamped)
	if err != nil {
		return Range{}, err
	}
	return Range{
		Start: Position{Line: rng.Start.Line, Character: rng.Start.Character},
		End:   Position{Line: rng.End.Line, Character: rng.End.Character},
	}, nil
}

func clampSpanToSource(sp itext.Span, srcLen itext.ByteOffset) itext.Span {
	if !sp.Start.IsValid() {
		sp.Start = 0
	}
	if !sp.End.IsValid() {
		sp.End = sp.Start
	}
	if sp.Start > srcLen {
		sp.Start = srcLen
	}
	if sp.End > srcLen {
		sp.End = srcLen
	}
	if sp.End < sp.Start {
		sp.End = sp.Start
	}
	return sp
}

func lspSeverityForLevel(lvl diagnostic.Level) int {
	switch lvl {
	case diagnostic.Error:
		return 1
	case diagnostic.Warning:
		return 2
	case diagnostic.Help:
		return 3
	default:
		return 1
	}
}

const (
	jsonRPCParseError     = -32700
	jsonRPCInvalidRequest = -32600
	jsonRPCMethodNotFound = -32601
	jsonRPCInvalidParams  = -32602
	jsonRPCInternalError  = -32603

	// lspErrorContentModified indicates a stale versioned request in LSP.
	lspErrorContentModified = -32801
	// lspErrorRequestCancelled indicates cancellation.
	lspErrorRequestCancelled = -32800
	// lspErrorRequestFailed indicates request failure (unsafe formatting, etc.).
	lspErrorRequestFailed = -32803
)

var (
	// ErrShutdownRequested is returned internally after exit notification is handled.
	ErrShutdownRequested = errors.New("lsp server exit requested")
	// ErrDocumentNotOpen indicates a request referenced a document not tracked
	// by the snapshot store — narwhalc's LSP is whole-document-sync only, so
	// this fires for any request racing a didClose or predating a didOpen.
	ErrDocumentNotOpen = errors.New("document is not open")
	// ErrStaleVersion indicates a request's document version is older than
	// the snapshot store's current version for that URI.
	ErrStaleVersion = errors.New("stale document version")
)

// lspErrorCodeForFormatting maps a Formatting/DidChange error to the LSP
// error code the JSON-RPC response should carry, folding in
// fmtengine.ErrUnsafeToFormat's fail-closed refusal (spec's format package
// degrades to trivia normalization and refuses rather than guessing on
// syntax errors or invalid UTF-8).
func lspErrorCodeForFormatting(err error) int {
	switch {
	case errors.Is(err, ErrStaleVersion):
		return lspErrorContentModified
	case errors.Is(err, ErrDocumentNotOpen):
		return jsonRPCInvalidParams
	case errors.Is(err, context.Canceled):
		return lspErrorRequestCancelled
	case fmtengine.IsErrUnsafeToFormat(err):
		return lspErrorRequestFailed
	default:
		return jsonRPCInternalError
	}
}

func lspErrorCodeForQuery(err error) int {
	if errors.Is(err, context.Canceled) {
		return lspErrorRequestCancelled
	}
	return jsonRPCInternalError
}

func readFramedMessage(r *bufio.Reader) ([]byte, error) {
	contentLen := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if line == "\r\n" || line == "\n" {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header line %q", line)
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			var n int
			if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d", &n); err != nil || n < 0 {
				return nil, fmt.Errorf("invalid Content-Length %q", value)
			}
			contentLen = n
		}
	}
	if contentLen < 0 {
		return nil, errors.New("missing Content-Length")
	}
	body := make([]byte, contentLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

func writeFramedMessage(w io.Writer, body []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
