package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	itext "github.com/narwhal-lang/narwhalc/internal/text"
)

func TestInitializeAdvertisesCapabilities(t *testing.T) {
	t.Parallel()

	s := NewServer()
	res, err := s.Initialize(context.Background(), InitializeParams{})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	got := res.Capabilities
	if !got.TextDocumentSync.OpenClose || got.TextDocumentSync.Change != TextDocumentSyncKindFull {
		t.Fatalf("unexpected textDocumentSync: %+v", got.TextDocumentSync)
	}
	if !got.DocumentFormattingProvider || !got.HoverProvider || !got.DefinitionProvider {
		t.Fatalf("unexpected capabilities: %+v", got)
	}
}

func TestServerRunInitializeShutdownExit(t *testing.T) {
	t.Parallel()

	var in bytes.Buffer
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`1`), Method: "initialize", Params: json.RawMessage(`{}`)})
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`2`), Method: "shutdown"})
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, Method: "exit"})

	var out bytes.Buffer
	s := NewServer()
	if err := s.Run(context.Background(), &in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	br := bufio.NewReader(bytes.NewReader(out.Bytes()))
	resp1 := readRespFrame(t, br)
	resp2 := readRespFrame(t, br)
	if _, err := readFramedMessage(br); err == nil {
		t.Fatal("expected exactly two responses")
	}
	if resp1.Error != nil || string(resp1.ID) != "1" {
		t.Fatalf("unexpected initialize response: %+v", resp1)
	}
	var initRes InitializeResult
	marshalRoundtrip(t, resp1.Result, &initRes)
	if initRes.Capabilities.TextDocumentSync.Change != TextDocumentSyncKindFull {
		t.Fatalf("unexpected initialize capabilities: %+v", initRes.Capabilities)
	}
	if resp2.Error != nil || string(resp2.ID) != "2" {
		t.Fatalf("unexpected shutdown response: %+v", resp2)
	}
}

func TestServerUnknownMethodReturnsMethodNotFound(t *testing.T) {
	t.Parallel()

	var in bytes.Buffer
	writeReqFrame(t, &in, Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`99`), Method: "narwhal/unknown"})
	var out bytes.Buffer
	if err := NewServer().Run(context.Background(), &in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	resp := readRespFrame(t, bufio.NewReader(bytes.NewReader(out.Bytes())))
	if resp.Error == nil || resp.Error.Code != jsonRPCMethodNotFound {
		t.Fatalf("expected method-not-found, got %+v", resp)
	}
}

func TestServerRunPublishesDiagnosticsOnOpenChangeClose(t *testing.T) {
	t.Parallel()

	var in bytes.Buffer
	writeReqFrame(t, &in, Request{
		JSONRPC: JSONRPCVersion,
		Method:  "textDocument/didOpen",
		Params: mustJSON(t, DidOpenParams{
			TextDocument: TextDocumentItem{
				URI:     "file:///diag.nw",
				Version: 1,
				Text:    "fn add(a, b) {\n  return a +\n",
			},
		}),
	})
	writeReqFrame(t, &in, Request{
		JSONRPC: JSONRPCVersion,
		Method:  "textDocument/didChange",
		Params: mustJSON(t, DidChangeParams{
			TextDocument: VersionedTextDocumentIdentifier{URI: "file:///diag.nw", Version: 2},
			ContentChanges: []TextDocumentContentChangeEvent{{
				Text: "fn add(a, b) {\n  return a + b;\n}\n",
			}},
		}),
	})
	writeReqFrame(t, &in, Request{
		JSONRPC: JSONRPCVersion,
		Method:  "textDocument/didClose",
		Params:  mustJSON(t, DidCloseParams{TextDocument: TextDocumentIdentifier{URI: "file:///diag.nw"}}),
	})

	var out bytes.Buffer
	if err := NewServer().Run(context.Background(), &in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	msgs := readAllFrames(t, out.Bytes())
	notifications := collectMethodMessages(t, msgs, "textDocument/publishDiagnostics")
	if len(notifications) != 3 {
		t.Fatalf("publishDiagnostics count=%d, want 3", len(notifications))
	}

	var openDiag PublishDiagnosticsParams
	marshalRoundtrip(t, notifications[0].Params, &openDiag)
	if openDiag.Version == nil || *openDiag.Version != 1 {
		t.Fatalf("open diagnostics version=%v, want 1", openDiag.Version)
	}
	if len(openDiag.Diagnostics) == 0 {
		t.Fatal("expected diagnostics for invalid open document")
	}

	var changeDiag PublishDiagnosticsParams
	marshalRoundtrip(t, notifications[1].Params, &changeDiag)
	if changeDiag.Version == nil || *changeDiag.Version != 2 {
		t.Fatalf("change diagnostics version=%v, want 2", changeDiag.Version)
	}
	if len(changeDiag.Diagnostics) != 0 {
		t.Fatalf("expected diagnostics cleared after valid change, got %d", len(changeDiag.Diagnostics))
	}

	var closeDiag PublishDiagnosticsParams
	marshalRoundtrip(t, notifications[2].Params, &closeDiag)
	if closeDiag.Version != nil {
		t.Fatalf("close diagnostics version=%v, want nil", closeDiag.Version)
	}
	if len(closeDiag.Diagnostics) != 0 {
		t.Fatalf("expected empty diagnostics on close, got %d", len(closeDiag.Diagnostics))
	}
}

func TestServerRunDocumentFormattingSuccessNoOpRefusalAndStale(t *testing.T) {
	t.Parallel()

	t.Run("success_and_noop", func(t *testing.T) {
		t.Parallel()

		var in bytes.Buffer
		src := "fn ping(id) {\n    return id;\n}\n"
		writeReqFrame(t, &in, Request{
			JSONRPC: JSONRPCVersion,
			Method:  "textDocument/didOpen",
			Params: mustJSON(t, DidOpenParams{
				TextDocument: TextDocumentItem{URI: "file:///fmt.nw", Version: 1, Text: src},
			}),
		})
		writeReqFrame(t, &in, Request{
			JSONRPC: JSONRPCVersion,
			ID:      json.RawMessage(`1`),
			Method:  "textDocument/formatting",
			Params: mustJSON(t, DocumentFormattingParams{
				TextDocument: TextDocumentIdentifier{URI: "file:///fmt.nw"},
				Version:      int32Ptr(1),
				Options:      FormattingOptions{TabSize: 2, InsertSpaces: true},
			}),
		})
		writeReqFrame(t, &in, Request{
			JSONRPC: JSONRPCVersion,
			Method:  "textDocument/didChange",
			Params: mustJSON(t, DidChangeParams{
				TextDocument: VersionedTextDocumentIdentifier{URI: "file:///fmt.nw", Version: 2},
				ContentChanges: []TextDocumentContentChangeEvent{{
					Text: "fn ping(id) {\n  return id;\n}\n",
				}},
			}),
		})
		writeReqFrame(t, &in, Request{
			JSONRPC: JSONRPCVersion,
			ID:      json.RawMessage(`2`),
			Method:  "textDocument/formatting",
			Params: mustJSON(t, DocumentFormattingParams{
				TextDocument: TextDocumentIdentifier{URI: "file:///fmt.nw"},
				Version:      int32Ptr(2),
				Options:      FormattingOptions{TabSize: 2, InsertSpaces: true},
			}),
		})

		var out bytes.Buffer
		if err := NewServer().Run(context.Background(), &in, &out); err != nil {
			t.Fatalf("Run: %v", err)
		}
		msgs := readAllFrames(t, out.Bytes())
		resp1 := responseByID(t, msgs, "1")
		resp2 := responseByID(t, msgs, "2")
		if resp1.Error != nil {
			t.Fatalf("formatting response 1 error: %+v", resp1.Error)
		}
		if resp2.Error != nil {
			t.Fatalf("formatting response 2 error: %+v", resp2.Error)
		}
		var edits1 []TextEdit
		marshalRoundtrip(t, resp1.Result, &edits1)
		if len(edits1) != 1 {
			t.Fatalf("edits1 len=%d, want 1", len(edits1))
		}
		if !strings.Contains(edits1[0].NewText, "  return id;") {
			t.Fatalf("unexpected formatting output: %q", edits1[0].NewText)
		}
		var edits2 []TextEdit
		marshalRoundtrip(t, resp2.Result, &edits2)
		if len(edits2) != 0 {
			t.Fatalf("edits2 len=%d, want 0", len(edits2))
		}
	})

	t.Run("refusal_and_stale", func(t *testing.T) {
		t.Parallel()

		var in bytes.Buffer
		writeReqFrame(t, &in, Request{
			JSONRPC: JSONRPCVersion,
			Method:  "textDocument/didOpen",
			Params: mustJSON(t, DidOpenParams{
				TextDocument: TextDocumentItem{URI: "file:///bad.nw", Version: 1, Text: "const bad = 1 +\n"},
			}),
		})
		writeReqFrame(t, &in, Request{
			JSONRPC: JSONRPCVersion,
			ID:      json.RawMessage(`3`),
			Method:  "textDocument/formatting",
			Params: mustJSON(t, DocumentFormattingParams{
				TextDocument: TextDocumentIdentifier{URI: "file:///bad.nw"},
				Version:      int32Ptr(1),
				Options:      FormattingOptions{TabSize: 2, InsertSpaces: true},
			}),
		})
		writeReqFrame(t, &in, Request{
			JSONRPC: JSONRPCVersion,
			Method:  "textDocument/didChange",
			Params: mustJSON(t, DidChangeParams{
				TextDocument: VersionedTextDocumentIdentifier{URI: "file:///bad.nw", Version: 2},
				ContentChanges: []TextDocumentContentChangeEvent{{
					Text: "const bad = 1;\n",
				}},
			}),
		})
		writeReqFrame(t, &in, Request{
			JSONRPC: JSONRPCVersion,
			ID:      json.RawMessage(`4`),
			Method:  "textDocument/formatting",
			Params: mustJSON(t, DocumentFormattingParams{
				TextDocument: TextDocumentIdentifier{URI: "file:///bad.nw"},
				Version:      int32Ptr(1), // stale after didChange to v2
				Options:      FormattingOptions{TabSize: 2, InsertSpaces: true},
			}),
		})

		var out bytes.Buffer
		if err := NewServer().Run(context.Background(), &in, &out); err != nil {
			t.Fatalf("Run: %v", err)
		}
		msgs := readAllFrames(t, out.Bytes())
		resp3 := responseByID(t, msgs, "3")
		if resp3.Error == nil || resp3.Error.Code != lspErrorRequestFailed {
			t.Fatalf("response 3 error=%+v, want RequestFailed", resp3.Error)
		}
		resp4 := responseByID(t, msgs, "4")
		if resp4.Error == nil || resp4.Error.Code != lspErrorContentModified {
			t.Fatalf("response 4 error=%+v, want ContentModified", resp4.Error)
		}
	})
}

func TestServerHoverAndDefinitionResolveCrossFileGlobal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	libSrc := "fn add(a, b) {\n  return a + b;\n}\n"
	mainSrc := "fn main() {\n  return lib.add(1, 2);\n}\n"
	writeProjectFile(t, dir, "lib.nw", libSrc)
	writeProjectFile(t, dir, "main.nw", mainSrc)

	mainURI := pathToURI(filepath.Join(dir, "main.nw"))
	libURI := pathToURI(filepath.Join(dir, "lib.nw"))

	s := NewServer()
	if err := s.DidOpen(context.Background(), DidOpenParams{
		TextDocument: TextDocumentItem{URI: mainURI, Version: 1, Text: mainSrc},
	}); err != nil {
		t.Fatalf("DidOpen: %v", err)
	}

	callOffset := strings.Index(mainSrc, "add(")
	if callOffset < 0 {
		t.Fatal("failed to find call site")
	}
	li := itext.NewLineIndex([]byte(mainSrc))
	pos, err := li.OffsetToUTF16Position(itext.ByteOffset(callOffset))
	if err != nil {
		t.Fatalf("OffsetToUTF16Position: %v", err)
	}
	posParams := TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: mainURI},
		Position:     Position{Line: pos.Line, Character: pos.Character},
	}

	hover, err := s.Hover(context.Background(), HoverParams{TextDocumentPositionParams: posParams})
	if err != nil {
		t.Fatalf("Hover: %v", err)
	}
	if hover == nil {
		t.Fatal("expected hover result")
	}
	if hover.Contents.Value != "function add" {
		t.Fatalf("hover text = %q, want %q", hover.Contents.Value, "function add")
	}

	locs, err := s.Definition(context.Background(), DefinitionParams{TextDocumentPositionParams: posParams})
	if err != nil {
		t.Fatalf("Definition: %v", err)
	}
	if len(locs) != 1 {
		t.Fatalf("Definition locations = %d, want 1", len(locs))
	}
	if locs[0].URI != libURI {
		t.Fatalf("Definition URI = %q, want %q", locs[0].URI, libURI)
	}
	wantDefOffset := strings.Index(libSrc, "add")
	wantDefPos, err := itext.NewLineIndex([]byte(libSrc)).OffsetToUTF16Position(itext.ByteOffset(wantDefOffset))
	if err != nil {
		t.Fatalf("OffsetToUTF16Position(def): %v", err)
	}
	if locs[0].Range.Start.Line != wantDefPos.Line || locs[0].Range.Start.Character != wantDefPos.Character {
		t.Fatalf("Definition range start = %+v, want %+v", locs[0].Range.Start, wantDefPos)
	}
}

func TestServerHoverAtNonPathPositionReturnsNil(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := "fn main() {\n  return 1 + 2;\n}\n"
	writeProjectFile(t, dir, "main.nw", src)
	uri := pathToURI(filepath.Join(dir, "main.nw"))

	s := NewServer()
	if err := s.DidOpen(context.Background(), DidOpenParams{
		TextDocument: TextDocumentItem{URI: uri, Version: 1, Text: src},
	}); err != nil {
		t.Fatalf("DidOpen: %v", err)
	}

	hover, err := s.Hover(context.Background(), HoverParams{TextDocumentPositionParams: TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 0, Character: 0},
	}})
	if err != nil {
		t.Fatalf("Hover: %v", err)
	}
	if hover != nil {
		t.Fatalf("expected nil hover at non-path position, got %+v", hover)
	}
}

func writeProjectFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

func writeReqFrame(t *testing.T, w *bytes.Buffer, req Request) {
	t.Helper()
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if err := writeFramedMessage(w, b); err != nil {
		t.Fatalf("writeFramedMessage: %v", err)
	}
}

func readRespFrame(t *testing.T, r *bufio.Reader) Response {
	t.Helper()
	b, err := readFramedMessage(r)
	if err != nil {
		t.Fatalf("readFramedMessage: %v", err)
	}
	var resp Response
	if err := json.Unmarshal(b, &resp); err != nil {
		t.Fatalf("json.Unmarshal response: %v", err)
	}
	return resp
}

func marshalRoundtrip(t *testing.T, in any, out any) {
	t.Helper()
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal roundtrip: %v", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		t.Fatalf("json.Unmarshal roundtrip: %v", err)
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal params: %v", err)
	}
	return json.RawMessage(b)
}

func int32Ptr(v int32) *int32 {
	p := new(int32)
	*p = v
	return p
}

type testFrame struct {
	body []byte
	msg  Request
}

func readAllFrames(t *testing.T, raw []byte) []testFrame {
	t.Helper()
	br := bufio.NewReader(bytes.NewReader(raw))
	var out []testFrame
	for {
		body, err := readFramedMessage(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("readFramedMessage: %v", err)
		}
		var msg Request
		if err := json.Unmarshal(body, &msg); err != nil {
			t.Fatalf("json.Unmarshal frame: %v", err)
		}
		out = append(out, testFrame{body: body, msg: msg})
	}
	return out
}

func collectMethodMessages(t *testing.T, msgs []testFrame, method string) []Request {
	t.Helper()
	out := make([]Request, 0, len(msgs))
	for _, msg := range msgs {
		if msg.msg.Method == method {
			out = append(out, msg.msg)
		}
	}
	return out
}

func responseByID(t *testing.T, msgs []testFrame, id string) Response {
	t.Helper()
	for _, msg := range msgs {
		if string(msg.msg.ID) != id {
			continue
		}
		var resp Response
		if err := json.Unmarshal(msg.body, &resp); err != nil {
			t.Fatalf("json.Unmarshal response: %v", err)
		}
		return resp
	}
	t.Fatalf("response id=%s not found", id)
	return Response{}
}
