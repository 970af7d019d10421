package main

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/Wicin-134/W/wlang"
)

func newTestLineREPL(t *testing.T) (*lineREPL, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	engine, err := wlang.NewEngine(wlang.Config{Stdout: &out})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return newLineREPL(engine, &out), &out
}

func TestLineREPLRunsCompleteLines(t *testing.T) {
	repl, out := newTestLineREPL(t)
	ctx := context.Background()

	if source := repl.feed(ctx, "int 2 'x'"); source != "int 2 'x'" {
		t.Fatalf("expected source to run, got %q", source)
	}
	repl.feed(ctx, "show 'x' + 1")
	repl.feed(ctx, "show 'y'")

	want := "3\nError on line 3: NameError: undefined variable 'y'\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, out.String())
	}
}

func TestLineREPLBuffersOpenBlocks(t *testing.T) {
	repl, out := newTestLineREPL(t)
	ctx := context.Background()

	if source := repl.feed(ctx, "while false"); source != "" {
		t.Fatalf("expected open block to wait, got %q", source)
	}
	if repl.prompt(linePrompt) != continuationPrompt {
		t.Fatalf("expected continuation prompt")
	}
	repl.feed(ctx, `show "never"`)
	source := repl.feed(ctx, "done")
	if source != "while false\nshow \"never\"\ndone" {
		t.Fatalf("unexpected source: %q", source)
	}
	if repl.prompt(linePrompt) != linePrompt {
		t.Fatalf("expected base prompt after block closed")
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestLineREPLAbandonDropsBlock(t *testing.T) {
	repl, out := newTestLineREPL(t)
	ctx := context.Background()

	repl.feed(ctx, "func f")
	repl.abandon()
	repl.feed(ctx, `show "fresh"`)
	if out.String() != "fresh\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestLineREPLCommands(t *testing.T) {
	repl, out := newTestLineREPL(t)
	ctx := context.Background()

	repl.feed(ctx, ":vars")
	if out.String() != "No variables defined\n" {
		t.Fatalf("unexpected :vars output: %q", out.String())
	}

	out.Reset()
	repl.feed(ctx, "int 5 'n'")
	repl.feed(ctx, "func f\ndone")
	repl.feed(ctx, ":vars")
	repl.feed(ctx, ":funcs")
	if out.String() != "n = 5\nf\n" {
		t.Fatalf("unexpected command output: %q", out.String())
	}

	out.Reset()
	repl.feed(ctx, ":reset")
	repl.feed(ctx, ":vars")
	if out.String() != "Session reset\nNo variables defined\n" {
		t.Fatalf("unexpected reset output: %q", out.String())
	}
}

func TestLineREPLComplete(t *testing.T) {
	repl, _ := newTestLineREPL(t)
	repl.feed(context.Background(), "int 1 'total'")

	got := repl.complete("show 'tot")
	if !slices.Contains(got, "show 'total") {
		t.Fatalf("expected variable completion, got %q", got)
	}
	if got := repl.complete("show "); got != nil {
		t.Fatalf("expected no completions after a space, got %q", got)
	}
	if got := repl.complete("whi"); len(got) == 0 || got[0] != "while" {
		t.Fatalf("expected keyword completion, got %q", got)
	}
}

func TestLastWord(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"show":       "show",
		"show 'ab":   "ab",
		`show "ab`:   "ab",
		"show 'ab' ": "",
	}
	for line, want := range cases {
		if got := lastWord(line); got != want {
			t.Fatalf("lastWord(%q) = %q, want %q", line, got, want)
		}
	}
}
