package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/Wicin-134/W/wlang"
)

var keywordDocs = map[string]string{
	"show":         "`show expr` prints the value of an expression.",
	"int":          "`int expr 'name'` declares a number, converting numeric text.",
	"bool":         "`bool [expr] 'name'` declares true or false; without a value it is false.",
	"array":        "`array \"1,2,3\" 'name'` declares a numeric array.",
	"array_str":    "`array_str \"a\",\"b\" 'name'` declares a string array.",
	"leng":         "`leng 'arr' [= 'n']` gives the number of elements.",
	"push":         "`push 'arr' expr` appends an element.",
	"pop":          "`pop 'arr' [= 'v']` removes and gives the last element.",
	"get":          "`get 'arr' index [= 'v']` gives the element at a zero-based index.",
	"if":           "`if cond stmt [else stmt]` runs one statement per branch.",
	"else":         "Introduces the alternative statement of an `if`.",
	"while":        "`while cond ... done` repeats the block, at most 1000 times per run.",
	"done":         "Closes the innermost `while` or `func` block.",
	"func":         "`func name ... done` stores a parameterless function.",
	"call":         "`call name` runs a stored function against the shared variables.",
	"input":        "`input [prompt] = 'v'` reads a line of text.",
	"time":         "`time [= 'v']` gives the current Unix time in seconds.",
	"date":         "`date [= 'v']` gives today's date as YYYY-MM-DD.",
	"datetime":     "`datetime [= 'v']` gives the local time as YYYY-MM-DD HH:MM:SS.",
	"sleep":        "`sleep seconds` pauses execution.",
	"random":       "`random start end = 'v'` picks a whole number in the inclusive range.",
	"write":        "`write text \"file\"` writes text to a file in the temporary directory.",
	"read":         "`read \"file\" = 'v'` reads a file from the temporary directory.",
	"clear":        "`clear` forgets every variable and keeps functions.",
	"clear-output": "`clear-output` clears the terminal.",
	"END":          "`END` stops the script.",
	"and":          "Logical and, also written `&&`.",
	"or":           "Logical or, also written `||`.",
	"not":          "Logical negation.",
	"true":         "Boolean true.",
	"false":        "Boolean false.",
}

// CompletionItemKind values.
const (
	lspKindVariable = 6
	lspKindKeyword  = 14
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	engine *wlang.Engine
	docs   map[string]string
}

func runLSP() error {
	return newLSPServer(os.Stdin, os.Stdout).serve()
}

func newLSPServer(r io.Reader, w io.Writer) *lspServer {
	return &lspServer{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
		engine: wlang.MustNewEngine(wlang.Config{}),
		docs:   make(map[string]string),
	}
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		messages := s.handleMessage(incoming)
		for _, msg := range messages {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

type lspHandler func(s *lspServer, incoming lspInboundMessage) []lspOutboundMessage

var lspHandlers = map[string]lspHandler{
	"initialize":              (*lspServer).initialize,
	"initialized":             ignoreNotification,
	"exit":                    ignoreNotification,
	"shutdown":                (*lspServer).shutdown,
	"textDocument/didOpen":    (*lspServer).didOpen,
	"textDocument/didChange":  (*lspServer).didChange,
	"textDocument/completion": (*lspServer).completion,
	"textDocument/hover":      (*lspServer).hover,
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	if handler, ok := lspHandlers[incoming.Method]; ok {
		return handler(s, incoming)
	}
	if incoming.ID == nil {
		return nil
	}
	return replyError(incoming.ID, -32601, "method not found")
}

func ignoreNotification(*lspServer, lspInboundMessage) []lspOutboundMessage {
	return nil
}

func reply(id *json.RawMessage, result any) []lspOutboundMessage {
	return []lspOutboundMessage{{JSONRPC: "2.0", ID: id, Result: result}}
}

func replyError(id *json.RawMessage, code int, message string) []lspOutboundMessage {
	return []lspOutboundMessage{{JSONRPC: "2.0", ID: id, Error: &lspResponseError{Code: code, Message: message}}}
}

func (s *lspServer) initialize(incoming lspInboundMessage) []lspOutboundMessage {
	return reply(incoming.ID, map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync":   1,
			"hoverProvider":      true,
			"completionProvider": map[string]any{"resolveProvider": false},
		},
		"serverInfo": map[string]any{"name": "w-lsp"},
	})
}

func (s *lspServer) shutdown(incoming lspInboundMessage) []lspOutboundMessage {
	if incoming.ID == nil {
		return nil
	}
	s.docs = make(map[string]string)
	return reply(incoming.ID, nil)
}

func (s *lspServer) didOpen(incoming lspInboundMessage) []lspOutboundMessage {
	var params lspDidOpenParams
	if err := json.Unmarshal(incoming.Params, &params); err != nil {
		return nil
	}
	return s.store(params.TextDocument.URI, params.TextDocument.Text)
}

// didChange applies full-document sync: the last change holds the whole text.
func (s *lspServer) didChange(incoming lspInboundMessage) []lspOutboundMessage {
	var params lspDidChangeParams
	if err := json.Unmarshal(incoming.Params, &params); err != nil || len(params.ContentChanges) == 0 {
		return nil
	}
	return s.store(params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
}

func (s *lspServer) store(uri, text string) []lspOutboundMessage {
	s.docs[uri] = text
	return []lspOutboundMessage{s.publishDiagnostics(uri, text)}
}

func (s *lspServer) completion(incoming lspInboundMessage) []lspOutboundMessage {
	if incoming.ID == nil {
		return nil
	}
	var params lspTextDocumentPositionParams
	if err := json.Unmarshal(incoming.Params, &params); err != nil {
		return replyError(incoming.ID, -32602, "invalid completion params")
	}
	return reply(incoming.ID, map[string]any{
		"isIncomplete": false,
		"items":        completionItems(s.docs[params.TextDocument.URI]),
	})
}

func (s *lspServer) hover(incoming lspInboundMessage) []lspOutboundMessage {
	if incoming.ID == nil {
		return nil
	}
	var params lspTextDocumentPositionParams
	if err := json.Unmarshal(incoming.Params, &params); err != nil {
		return replyError(incoming.ID, -32602, "invalid hover params")
	}
	word := wordAtPosition(s.docs[params.TextDocument.URI], params.Position.Line, params.Position.Character)
	if word == "" {
		return reply(incoming.ID, nil)
	}
	return reply(incoming.ID, map[string]any{
		"contents": map[string]any{"kind": "markdown", "value": hoverText(word)},
	})
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(s.engine, source),
		},
	}
}

func diagnosticsForSource(engine *wlang.Engine, source string) []map[string]any {
	_, err := engine.Compile(source)
	if err == nil {
		return []map[string]any{}
	}

	var list wlang.ErrorList
	if !errors.As(err, &list) {
		return []map[string]any{newDiagnostic(0, 0, err.Error())}
	}

	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		message := fmt.Sprintf("%s: %s", e.Kind, e.Message)
		out = append(out, newDiagnostic(max(0, e.Line-1), max(0, e.Column-1), message))
	}
	return out
}

func newDiagnostic(line, character int, message string) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": 1,
		"source":   "w-lsp",
		"message":  message,
	}
}

// completionItems offers every keyword plus the names found in source,
// sorted by label.
func completionItems(source string) []map[string]any {
	kinds := make(map[string]int)
	for _, name := range namesInSource(source) {
		kinds[name] = lspKindVariable
	}
	for _, keyword := range wlang.Keywords() {
		kinds[keyword] = lspKindKeyword
	}

	labels := make([]string, 0, len(kinds))
	for label := range kinds {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	items := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		detail := "name"
		if kinds[label] == lspKindKeyword {
			detail = "keyword"
		}
		items = append(items, map[string]any{"label": label, "kind": kinds[label], "detail": detail})
	}
	return items
}

func namesInSource(source string) []string {
	if source == "" {
		return nil
	}
	tokens, _ := wlang.Tokenize(source)
	var names []string
	for _, tok := range tokens {
		if tok.Quote != 0 || (tok.Literal != "" && !tok.IsKeyword() && isNameToken(tok.Literal)) {
			names = append(names, tok.Literal)
		}
	}
	return names
}

func isNameToken(literal string) bool {
	for i, r := range literal {
		if i == 0 && !(unicode.IsLetter(r) || r == '_') {
			return false
		}
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

func hoverText(word string) string {
	if doc, ok := keywordDocs[word]; ok {
		return fmt.Sprintf("`%s`\n\n%s", word, doc)
	}
	return fmt.Sprintf("`%s`\n\nW name", word)
}

func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}
	character = min(max(character, 0), len(runes))

	cursor := character
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	word := string(runes[start:end])
	if word == "clear" && strings.HasPrefix(string(runes[end:]), "-output") {
		word = "clear-output"
	}
	return word
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, errors.New("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
