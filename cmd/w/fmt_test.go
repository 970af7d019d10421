package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatWSourceIndentsBlocks(t *testing.T) {
	input := "func loop\r\nwhile 'i' < 3   \n\n'i' + 1 = 'i'\nif 'i' = 2 show 'i'\n   done\ndone\n\n\n"
	want := "func loop\n  while 'i' < 3\n\n    'i' + 1 = 'i'\n    if 'i' = 2 show 'i'\n  done\ndone\n"
	if got := formatWSource(input); got != want {
		t.Fatalf("unexpected format:\nwant %q\ngot  %q", want, got)
	}
}

func TestFormatWSourceIsIdempotent(t *testing.T) {
	input := "while true\nshow 1\nEND\ndone"
	once := formatWSource(input)
	if twice := formatWSource(once); twice != once {
		t.Fatalf("format is not idempotent:\n%q\n%q", once, twice)
	}
}

func TestFormatWSourceIgnoresKeywordsInStrings(t *testing.T) {
	input := "show \"while done\"\nshow 'x' # func"
	want := "show \"while done\"\nshow 'x' # func\n"
	if got := formatWSource(input); got != want {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestFmtCommandRequiresPath(t *testing.T) {
	err := fmtCommand(nil)
	if err == nil || !strings.Contains(err.Error(), "path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFmtCommandCheckAndWrite(t *testing.T) {
	dir := t.TempDir()
	messy := filepath.Join(dir, "messy.w")
	clean := filepath.Join(dir, "clean.w")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(messy, []byte("while true\nEND\ndone"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(clean, []byte("show 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(other, []byte("while\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return fmtCommand([]string{"-check", dir})
	})
	if err == nil || !strings.Contains(err.Error(), "1 file(s) need formatting") {
		t.Fatalf("unexpected check error: %v", err)
	}
	if !strings.Contains(out, "messy.w") || strings.Contains(out, "clean.w") {
		t.Fatalf("unexpected check output: %q", out)
	}

	if _, err := captureStdout(t, func() error {
		return fmtCommand([]string{"-w", dir})
	}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}
	data, err := os.ReadFile(messy)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "while true\n  END\ndone\n" {
		t.Fatalf("unexpected rewritten file: %q", data)
	}
	if data, _ := os.ReadFile(other); string(data) != "while\n" {
		t.Fatalf("non-.w file was modified: %q", data)
	}

	if err := fmtCommand([]string{"-check", dir}); err != nil {
		t.Fatalf("expected clean tree after -w, got %v", err)
	}
}

func TestFmtCommandPrintsToStdout(t *testing.T) {
	path := writeScript(t, "func f\nshow 1\ndone")
	out, err := captureStdout(t, func() error {
		return fmtCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("fmt failed: %v", err)
	}
	if out != "func f\n  show 1\ndone\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "func f\nshow 1\ndone" {
		t.Fatalf("file should be untouched without -w: %q", data)
	}
}
