package main

import (
	"errors"
	"flag"
	"fmt"
	"sort"

	"github.com/Wicin-134/W/wlang"
)

const topLevel = "top level"

type lintWarning struct {
	Scope   string
	Pos     wlang.Position
	Message string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("w analyze: script path required")
	}

	scriptPath, input, err := readScript(remaining[0])
	if err != nil {
		return err
	}

	engine := wlang.MustNewEngine(wlang.Config{})
	script, err := engine.Compile(input)
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	warnings := analyzeScriptWarnings(script)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, line, column, warning.Message, warning.Scope)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

type linter struct {
	defined  map[string]struct{}
	warnings []lintWarning
}

func analyzeScriptWarnings(script *wlang.Script) []lintWarning {
	l := &linter{defined: make(map[string]struct{})}
	collectFunctions(script.Statements(), l.defined)
	l.lintStatements(topLevel, script.Statements())

	sort.SliceStable(l.warnings, func(i, j int) bool {
		if l.warnings[i].Pos.Line != l.warnings[j].Pos.Line {
			return l.warnings[i].Pos.Line < l.warnings[j].Pos.Line
		}
		return l.warnings[i].Pos.Column < l.warnings[j].Pos.Column
	})
	return l.warnings
}

// collectFunctions records every func name, wherever it is defined, since a
// nested definition becomes visible once its enclosing block runs.
func collectFunctions(statements []wlang.Statement, defined map[string]struct{}) {
	for _, stmt := range statements {
		switch typed := stmt.(type) {
		case *wlang.FuncStmt:
			defined[typed.Name] = struct{}{}
			collectFunctions(typed.Body, defined)
		case *wlang.WhileStmt:
			collectFunctions(typed.Body, defined)
		}
	}
}

func (l *linter) warn(scope string, pos wlang.Position, format string, args ...any) {
	l.warnings = append(l.warnings, lintWarning{Scope: scope, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// lintStatements reports whether the sequence always reaches END.
func (l *linter) lintStatements(scope string, statements []wlang.Statement) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			l.warn(scope, stmt.Pos(), "unreachable statement after END")
			continue
		}
		if l.statementTerminates(scope, stmt) {
			terminated = true
		}
	}
	return terminated
}

func (l *linter) statementTerminates(scope string, stmt wlang.Statement) bool {
	switch typed := stmt.(type) {
	case *wlang.EndStmt:
		return true
	case *wlang.CallStmt:
		if _, ok := l.defined[typed.Name]; !ok {
			l.warn(scope, typed.Pos(), "call to undefined function '%s'", typed.Name)
		}
		return false
	case *wlang.IfStmt:
		thenEnds := l.statementTerminates(scope, typed.Then)
		if typed.Else == nil {
			return false
		}
		elseEnds := l.statementTerminates(scope, typed.Else)
		return thenEnds && elseEnds
	case *wlang.WhileStmt:
		bodyEnds := l.lintStatements(scope, typed.Body)
		if isAlwaysTrue(typed.Condition) && !containsEnd(typed.Body) {
			l.warn(scope, typed.Pos(), "while true loop can only stop at the iteration limit")
		}
		return isAlwaysTrue(typed.Condition) && bodyEnds
	case *wlang.FuncStmt:
		l.lintStatements("func "+typed.Name, typed.Body)
		return false
	default:
		return false
	}
}

func isAlwaysTrue(expr wlang.Expression) bool {
	lit, ok := expr.(*wlang.BoolLiteral)
	return ok && lit.Value
}

// containsEnd reports whether END appears anywhere in statements, including
// single-statement if branches.
func containsEnd(statements []wlang.Statement) bool {
	for _, stmt := range statements {
		if statementContainsEnd(stmt) {
			return true
		}
	}
	return false
}

func statementContainsEnd(stmt wlang.Statement) bool {
	switch typed := stmt.(type) {
	case *wlang.EndStmt:
		return true
	case *wlang.IfStmt:
		return statementContainsEnd(typed.Then) || (typed.Else != nil && statementContainsEnd(typed.Else))
	case *wlang.WhileStmt:
		return containsEnd(typed.Body)
	}
	return false
}
