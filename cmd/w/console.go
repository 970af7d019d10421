package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/Wicin-134/W/wlang"
)

const clearScreenSequence = "\x1b[H\x1b[2J"

// newConsole picks a line-editing console when both ends are a terminal
// and a plain reader console otherwise. The returned func releases it.
func newConsole() (wlang.Console, func()) {
	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		return &linerConsole{state: state, out: os.Stdout}, func() { _ = state.Close() }
	}
	return wlang.NewReaderConsole(os.Stdin, os.Stdout), func() {}
}

// linerConsole serves input statements from a liner prompt. Ctrl+C at the
// prompt cancels the running script.
type linerConsole struct {
	state *liner.State
	out   io.Writer
}

func (c *linerConsole) ReadLine(prompt string) (string, error) {
	line, err := c.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", fmt.Errorf("input aborted: %w", context.Canceled)
	}
	return line, err
}

func (c *linerConsole) ClearScreen() error {
	_, err := io.WriteString(c.out, clearScreenSequence)
	return err
}
