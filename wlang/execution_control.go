package wlang

import (
	"fmt"

	"fortio.org/log"
)

func (exec *Execution) evalIf(s *IfStmt) error {
	ok, err := exec.evalCondition("if", s.Condition)
	if err != nil {
		return err
	}
	branch := s.Else
	if ok {
		branch = s.Then
	}
	if branch == nil {
		return nil
	}
	return exec.evalStatement(branch)
}

// evalWhile runs the body while the condition holds, at most MaxIterations
// times. Hitting the cap ends the loop with a diagnostic and execution
// continues after done.
func (exec *Execution) evalWhile(s *WhileStmt) error {
	limit := exec.engine.config.MaxIterations
	for iteration := 0; ; iteration++ {
		ok, err := exec.evalCondition("while", s.Condition)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if iteration >= limit {
			log.Warnf("wlang: while loop on line %d stopped after %d iterations", s.Pos().Line, limit)
			exec.fault(&Error{
				Kind:    IterationLimitExceeded,
				Line:    s.Pos().Line,
				Message: fmt.Sprintf("while loop stopped after %d iterations", limit),
			})
			return nil
		}
		if err := exec.evalStatements(s.Body); err != nil {
			return err
		}
		if exec.stopped {
			return nil
		}
	}
}

// evalCall runs a stored body against the shared Env. There is no frame of
// its own, so every write is visible to the caller.
func (exec *Execution) evalCall(s *CallStmt) error {
	fn, ok := exec.env.Function(s.Name)
	if !ok {
		fault := newFault(NameError, "undefined function '%s'", s.Name)
		fault.Message += suggestName(s.Name, exec.env.FunctionNames())
		return fault
	}

	if limit := exec.engine.config.RecursionLimit; limit > 0 && exec.depth >= limit {
		return newFault(RecursionLimitExceeded, "call depth exceeded %d calling '%s'", limit, s.Name)
	}

	log.LogVf("wlang: call %s (depth %d)", s.Name, exec.depth+1)
	exec.depth++
	defer func() { exec.depth-- }()
	return exec.evalStatements(fn.Body)
}
