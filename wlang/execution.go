package wlang

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/log"
)

// Execution runs one batch of statements against a session's Env.
type Execution struct {
	engine *Engine
	ctx    context.Context
	env    *Env
	report *Report

	depth   int
	stopped bool
}

// evalStatements runs each statement inside its own fault boundary: a
// fault is reported and the next statement still runs. Only context
// cancellation stops the sequence with an error.
func (exec *Execution) evalStatements(stmts []Statement) error {
	for _, stmt := range stmts {
		if exec.stopped {
			return nil
		}
		if err := exec.ctx.Err(); err != nil {
			return err
		}

		err := exec.evalStatement(stmt)
		if err == nil {
			continue
		}
		if isInterrupt(err) {
			return err
		}
		exec.fault(asFault(err, stmt.Pos().Line))
	}
	return nil
}

func (exec *Execution) evalStatement(stmt Statement) error {
	log.LogVf("wlang: line %d: %T", stmt.Pos().Line, stmt)

	switch s := stmt.(type) {
	case *ShowStmt:
		val, err := exec.evalExpression(s.Value)
		if err != nil {
			return err
		}
		return exec.display(val)
	case *ExprStmt:
		val, err := exec.evalExpression(s.Expr)
		if err != nil {
			return err
		}
		return exec.display(val)
	case *AssignStmt:
		return exec.evalAssign(s)
	case *ArrayDeclStmt:
		exec.env.Set(s.Name, s.Value)
		return nil
	case *ArrayLenStmt:
		return exec.evalArrayLen(s)
	case *ArrayPushStmt:
		return exec.evalArrayPush(s)
	case *ArrayPopStmt:
		return exec.evalArrayPop(s)
	case *ArrayGetStmt:
		return exec.evalArrayGet(s)
	case *IfStmt:
		return exec.evalIf(s)
	case *WhileStmt:
		return exec.evalWhile(s)
	case *FuncStmt:
		exec.env.Define(&Function{Name: s.Name, Body: s.Body, Line: s.Pos().Line})
		return nil
	case *CallStmt:
		return exec.evalCall(s)
	case *EndStmt:
		exec.stopped = true
		exec.report.Ended = true
		return nil
	case *InputStmt:
		return exec.evalInput(s)
	case *TimeStmt:
		return exec.evalTime(s)
	case *SleepStmt:
		return exec.evalSleep(s)
	case *RandomStmt:
		return exec.evalRandom(s)
	case *WriteStmt:
		return exec.evalWrite(s)
	case *ReadStmt:
		return exec.evalRead(s)
	case *ClearStmt:
		exec.env.ClearValues()
		return nil
	case *ClearOutputStmt:
		if err := exec.engine.config.Console.ClearScreen(); err != nil {
			return ioFault(err, "clear-output failed")
		}
		return nil
	default:
		return newFault(TypeError, "unsupported statement %T", stmt)
	}
}

// evalAssign commits only after the value evaluates and passes the
// declaration's type check.
func (exec *Execution) evalAssign(s *AssignStmt) error {
	val, err := exec.evalExpression(s.Value)
	if err != nil {
		return err
	}

	switch s.Decl {
	case DeclInt:
		num, ok := coerceNumeric(val)
		if !ok {
			return newFault(TypeError, "int declaration of '%s' needs a number, got %s", s.Name, describe(val))
		}
		val = num
	case DeclBool:
		if val.Kind() != KindBool {
			return newFault(TypeError, "bool declaration of '%s' needs true or false, got %s", s.Name, describe(val))
		}
	}

	exec.env.Set(s.Name, val)
	return nil
}

// bind stores val in target, or displays it when there is no target.
func (exec *Execution) bind(target string, val Value) error {
	if target == "" {
		return exec.display(val)
	}
	exec.env.Set(target, val)
	return nil
}

func (exec *Execution) display(val Value) error {
	if _, err := fmt.Fprintln(exec.engine.config.Stdout, val.String()); err != nil {
		return ioFault(err, "writing output failed")
	}
	return nil
}

// fault reports a runtime fault on the diagnostics writer and records it.
func (exec *Execution) fault(err *Error) {
	exec.report.Faults = append(exec.report.Faults, err)
	log.LogVf("wlang: fault %s on line %d", err.Kind, err.Line)
	fmt.Fprintln(exec.engine.config.Diagnostics, err.Error())
}

// asFault converts err into a fault attributed to line unless a nested
// statement already placed it.
func asFault(err error, line int) *Error {
	var werr *Error
	if errors.As(err, &werr) {
		if werr.Line == 0 {
			werr.Line = line
		}
		return werr
	}
	return &Error{Kind: InputOutputError, Line: line, Message: err.Error(), Err: err}
}

func ioFault(err error, format string, args ...any) *Error {
	fault := newFault(InputOutputError, format, args...)
	fault.Message = fmt.Sprintf("%s: %v", fault.Message, err)
	fault.Err = err
	return fault
}

func isInterrupt(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// describe names a value's kind and shows short values inline.
func describe(val Value) string {
	switch val.Kind() {
	case KindString:
		return fmt.Sprintf("string %q", val.Str())
	case KindArray:
		return fmt.Sprintf("%s array", val.ElementKind())
	default:
		return fmt.Sprintf("%s %s", val.Kind(), val.String())
	}
}
