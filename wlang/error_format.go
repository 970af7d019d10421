package wlang

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeFrame renders the source line an error points at with a caret under
// its column. It returns "" when the line is not part of source.
func CodeFrame(source string, err *Error) string {
	if err == nil {
		return ""
	}
	return formatCodeFrame(source, Position{Line: err.Line, Column: err.Column})
}

func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[pos.Line-1], "\r")
	width := len([]rune(lineText))

	column := max(pos.Column, 1)
	column = min(column, width+1)

	label := strconv.Itoa(pos.Line)
	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		label,
		lineText,
		strings.Repeat(" ", len(label)),
		strings.Repeat(" ", column-1),
	)
}
