package wlang

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies load errors and runtime faults.
type ErrorKind int

const (
	LexError ErrorKind = iota + 1
	ParseError
	NameError
	TypeError
	DivisionByZero
	IndexError
	ValueError
	IterationLimitExceeded
	RecursionLimitExceeded
	InputOutputError
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case DivisionByZero:
		return "DivisionByZero"
	case IndexError:
		return "IndexError"
	case ValueError:
		return "ValueError"
	case IterationLimitExceeded:
		return "IterationLimitExceeded"
	case RecursionLimitExceeded:
		return "RecursionLimitExceeded"
	case InputOutputError:
		return "InputOutputError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a load error or a runtime fault tied to a source line.
type Error struct {
	Kind    ErrorKind
	Line    int
	Column  int
	Message string
	// Err is the underlying cause, such as a filesystem error.
	Err error
	// Incomplete marks a parse error caused only by input ending inside an
	// open block; an interactive caller can read more lines and retry.
	Incomplete bool
}

func newError(kind ErrorKind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// newFault builds a runtime fault whose line is filled in by the statement
// boundary that catches it.
func newFault(kind ErrorKind, format string, args ...any) *Error {
	return newError(kind, 0, format, args...)
}

func (e *Error) Error() string {
	return fmt.Sprintf("Error on line %d: %s: %s", e.Line, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error aborts loading instead of a single statement.
func (e *Error) Fatal() bool {
	return e.Kind == LexError || e.Kind == ParseError
}

// ErrorList collects every error found while loading a script.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	lines := make([]string, len(l))
	for i, err := range l {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, err := range l {
		errs[i] = err
	}
	return errs
}

// err returns nil for an empty list so callers never see a typed nil.
func (l ErrorList) err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind
	}
	return 0
}

// IsIncomplete reports whether err only says that input ended inside an
// unterminated block.
func IsIncomplete(err error) bool {
	var list ErrorList
	if errors.As(err, &list) {
		if len(list) == 0 {
			return false
		}
		for _, e := range list {
			if !e.Incomplete {
				return false
			}
		}
		return true
	}
	var werr *Error
	return errors.As(err, &werr) && werr.Incomplete
}
