package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
)

func TestDiagnosticsForSource(t *testing.T) {
	engine := newLSPServer(strings.NewReader(""), io.Discard).engine

	if diags := diagnosticsForSource(engine, "show 1\nshow 'x' + 2"); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}

	diags := diagnosticsForSource(engine, "show 1\nshow )")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
	start := diags[0]["range"].(map[string]any)["start"].(map[string]any)
	if start["line"] != 1 || start["character"] != 5 {
		t.Fatalf("unexpected diagnostic start: %v", start)
	}
	message, _ := diags[0]["message"].(string)
	if !strings.HasPrefix(message, "ParseError: ") {
		t.Fatalf("unexpected diagnostic message: %q", message)
	}
	if diags[0]["source"] != "w-lsp" {
		t.Fatalf("unexpected diagnostic source: %v", diags[0]["source"])
	}
}

func TestCompletionItemsIncludeKeywordsAndNames(t *testing.T) {
	items := completionItems("int 3 'count'\nfunc report\ndone\nshow \"two words\"")

	keyword := findCompletionItem(items, "while")
	if keyword == nil || keyword["kind"] != 14 || keyword["detail"] != "keyword" {
		t.Fatalf("expected while keyword item, got %v", keyword)
	}
	for _, name := range []string{"count", "report"} {
		item := findCompletionItem(items, name)
		if item == nil || item["kind"] != 6 || item["detail"] != "name" {
			t.Fatalf("expected %s name item, got %v", name, item)
		}
	}
	if findCompletionItem(items, "two words") != nil {
		t.Fatalf("plain strings should not be offered as names")
	}

	for i := 1; i < len(items); i++ {
		if items[i-1]["label"].(string) > items[i]["label"].(string) {
			t.Fatalf("completion items are not sorted at %d", i)
		}
	}
}

func TestHoverText(t *testing.T) {
	if got := hoverText("while"); !strings.Contains(got, "done") {
		t.Fatalf("unexpected keyword hover: %q", got)
	}
	if got := hoverText("count"); got != "`count`\n\nW name" {
		t.Fatalf("unexpected name hover: %q", got)
	}
}

func TestWordAtPosition(t *testing.T) {
	source := "while 'count' < 3\nclear-output\n"
	cases := []struct {
		line, character int
		want            string
	}{
		{0, 0, "while"},
		{0, 5, "while"},
		{0, 8, "count"},
		{0, 14, ""},
		{1, 2, "clear-output"},
		{2, 0, ""},
		{9, 0, ""},
	}
	for _, tc := range cases {
		if got := wordAtPosition(source, tc.line, tc.character); got != tc.want {
			t.Fatalf("wordAtPosition(%d, %d) = %q, want %q", tc.line, tc.character, got, tc.want)
		}
	}
}

func TestLSPServerSession(t *testing.T) {
	var input bytes.Buffer
	writeLSPMessage(t, &input, map[string]any{"jsonrpc": "2.0", "id": 1, "method": "initialize", "params": map[string]any{}})
	writeLSPMessage(t, &input, map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/didOpen",
		"params": map[string]any{
			"textDocument": map[string]any{"uri": "file:///demo.w", "text": "while true\nshow 1"},
		},
	})
	writeLSPMessage(t, &input, map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "textDocument/hover",
		"params": map[string]any{
			"textDocument": map[string]any{"uri": "file:///demo.w"},
			"position":     map[string]any{"line": 1, "character": 1},
		},
	})
	writeLSPMessage(t, &input, map[string]any{"jsonrpc": "2.0", "id": 3, "method": "workspace/symbol"})
	writeLSPMessage(t, &input, map[string]any{"jsonrpc": "2.0", "method": "exit"})

	var output bytes.Buffer
	if err := newLSPServer(&input, &output).serve(); err != nil {
		t.Fatalf("serve: %v", err)
	}

	reader := bufio.NewReader(&output)
	responses := make([]lspOutboundMessage, 0, 4)
	server := &lspServer{reader: reader}
	for {
		payload, err := server.readPayload()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read response: %v", err)
		}
		var msg lspOutboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		responses = append(responses, msg)
	}

	if len(responses) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(responses))
	}
	if responses[1].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("expected diagnostics notification, got %q", responses[1].Method)
	}
	diagnostics := responses[1].Params.(map[string]any)["diagnostics"].([]any)
	if len(diagnostics) != 1 || !strings.Contains(fmt.Sprint(diagnostics[0]), "missing 'done'") {
		t.Fatalf("unexpected diagnostics: %v", diagnostics)
	}
	hover := fmt.Sprint(responses[2].Result)
	if !strings.Contains(hover, "prints the value") {
		t.Fatalf("unexpected hover result: %s", hover)
	}
	if responses[3].Error == nil || responses[3].Error.Code != -32601 {
		t.Fatalf("expected method not found, got %+v", responses[3])
	}
}

func TestPositionRequestsRejectBadParams(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), io.Discard)
	id := json.RawMessage("7")
	for method, handle := range map[string]func(lspInboundMessage) []lspOutboundMessage{
		"completion": server.completion,
		"hover":      server.hover,
	} {
		out := handle(lspInboundMessage{JSONRPC: "2.0", ID: &id, Method: method, Params: json.RawMessage(`"oops"`)})
		if len(out) != 1 || out[0].Error == nil || out[0].Error.Code != -32602 {
			t.Fatalf("%s: expected invalid params error, got %+v", method, out)
		}
		if !strings.Contains(out[0].Error.Message, method) {
			t.Fatalf("%s: unexpected message %q", method, out[0].Error.Message)
		}
	}
}

func TestRunCLIStartsLSPAndExitsOnEOF(t *testing.T) {
	orig := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	_ = w.Close()
	os.Stdin = r
	defer func() {
		os.Stdin = orig
		_ = r.Close()
	}()

	if err := runCLI([]string{"w", "lsp"}); err != nil {
		t.Fatalf("runCLI lsp: %v", err)
	}
}

func writeLSPMessage(t *testing.T, w io.Writer, msg map[string]any) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	fmt.Fprintf(w, "Content-Length: %d\r\n\r\n%s", len(data), data)
}

func findCompletionItem(items []map[string]any, label string) map[string]any {
	for _, item := range items {
		if item["label"] == label {
			return item
		}
	}
	return nil
}
