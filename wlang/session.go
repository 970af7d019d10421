package wlang

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/log"
)

// Report describes one executed batch.
type Report struct {
	// Faults lists every runtime fault and limit diagnostic, in order.
	Faults []*Error
	// Ended is set when an END statement stopped the batch.
	Ended bool
}

// Session owns one Env. Variables, functions and line numbering persist
// across the scripts it runs. A Session is not safe for concurrent use.
type Session struct {
	engine   *Engine
	env      *Env
	nextLine int
}

func (e *Engine) NewSession() *Session {
	return &Session{engine: e, env: newEnv(), nextLine: 1}
}

func (s *Session) Env() *Env {
	return s.env
}

// NextLine is the number the next source passed to Run starts at.
func (s *Session) NextLine() int {
	return s.nextLine
}

// Reset forgets every variable and function and restarts line numbering.
func (s *Session) Reset() {
	s.env = newEnv()
	s.nextLine = 1
}

// Run compiles source starting at the session's next line and executes
// it. Load errors are written to the diagnostics writer and returned; in
// that case nothing runs.
func (s *Session) Run(ctx context.Context, source string) (*Report, error) {
	script, err := s.engine.CompileFrom(source, s.nextLine)
	s.nextLine += max(countLines(source), 1)
	if err != nil {
		s.reportLoadError(err)
		return nil, err
	}
	return s.Exec(ctx, script)
}

// Exec runs a compiled script against the session's Env. Runtime faults
// are reported and collected in the Report; the returned error is only
// set when ctx ends the run.
func (s *Session) Exec(ctx context.Context, script *Script) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	exec := &Execution{
		engine: s.engine,
		ctx:    ctx,
		env:    s.env,
		report: &Report{},
	}
	log.LogVf("wlang: executing %d statement(s) from line %d", len(script.program.Statements), script.firstLine)
	err := exec.evalStatements(script.program.Statements)
	return exec.report, err
}

func (s *Session) reportLoadError(err error) {
	out := s.engine.config.Diagnostics
	var list ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			fmt.Fprintln(out, e.Error())
		}
		return
	}
	fmt.Fprintln(out, err.Error())
}
