package wlang

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Console is the interactive terminal behind input and clear-output.
type Console interface {
	ReadLine(prompt string) (string, error)
	ClearScreen() error
}

// ReaderConsole reads input lines from r and writes prompts and screen
// clears to w.
type ReaderConsole struct {
	in  *bufio.Reader
	out io.Writer
}

func NewReaderConsole(r io.Reader, w io.Writer) *ReaderConsole {
	return &ReaderConsole{in: bufio.NewReader(r), out: w}
}

func (c *ReaderConsole) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := io.WriteString(c.out, prompt); err != nil {
			return "", err
		}
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *ReaderConsole) ClearScreen() error {
	_, err := fmt.Fprint(c.out, "\x1b[H\x1b[2J")
	return err
}
