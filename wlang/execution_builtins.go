package wlang

import (
	"errors"
	"io/fs"
	"math"
	"path/filepath"
	"time"

	"fortio.org/log"
	"github.com/go-git/go-billy/v5/util"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

func (exec *Execution) evalInput(s *InputStmt) error {
	prompt := ""
	if s.Prompt != nil {
		val, err := exec.evalExpression(s.Prompt)
		if err != nil {
			return err
		}
		prompt = val.String()
	}
	line, err := exec.engine.config.Console.ReadLine(prompt)
	if err != nil {
		if isInterrupt(err) {
			return err
		}
		return ioFault(err, "input for '%s' failed", s.Target)
	}
	exec.env.Set(s.Target, NewString(line))
	return nil
}

func (exec *Execution) evalTime(s *TimeStmt) error {
	now := exec.engine.config.Now()
	var val Value
	switch s.Query {
	case QueryDate:
		val = NewString(now.Format(dateLayout))
	case QueryDateTime:
		val = NewString(now.Format(dateTimeLayout))
	default:
		val = NewInt(now.Unix())
	}
	return exec.bind(s.Target, val)
}

func (exec *Execution) evalSleep(s *SleepStmt) error {
	val, err := exec.evalExpression(s.Seconds)
	if err != nil {
		return err
	}
	if !val.IsNumeric() {
		return newFault(TypeError, "sleep needs a number of seconds, got %s", describe(val))
	}
	seconds := val.Float()
	if seconds < 0 {
		return newFault(ValueError, "sleep duration must not be negative, got %s", val)
	}
	if seconds > float64(math.MaxInt64)/float64(time.Second) {
		return newFault(ValueError, "sleep duration %s is too long", val)
	}
	d := time.Duration(seconds * float64(time.Second))
	log.LogVf("wlang: sleeping %v", d)
	return exec.engine.config.Sleep(exec.ctx, d)
}

// evalRandom binds a uniformly chosen integer in [start, end].
func (exec *Execution) evalRandom(s *RandomStmt) error {
	start, err := exec.evalBound("start", s.Start)
	if err != nil {
		return err
	}
	end, err := exec.evalBound("end", s.End)
	if err != nil {
		return err
	}
	if start > end {
		return newFault(ValueError, "random range start %d is greater than end %d", start, end)
	}

	r := exec.engine.config.Random
	span := uint64(end-start) + 1
	var n int64
	if span == 0 {
		n = r.Int64()
	} else {
		n = start + int64(r.Uint64N(span))
	}
	exec.env.Set(s.Target, NewInt(n))
	return nil
}

func (exec *Execution) evalBound(which string, expr Expression) (int64, error) {
	val, err := exec.evalExpression(expr)
	if err != nil {
		return 0, err
	}
	num, ok := coerceNumeric(val)
	if !ok {
		return 0, newFault(TypeError, "random %s must be a number, got %s", which, describe(val))
	}
	return num.Int(), nil
}

func (exec *Execution) evalWrite(s *WriteStmt) error {
	text, err := exec.evalExpression(s.Text)
	if err != nil {
		return err
	}
	name, err := exec.evalFileName(s.File)
	if err != nil {
		return err
	}
	if err := util.WriteFile(exec.engine.config.FS, name, []byte(text.String()), 0o644); err != nil {
		return ioFault(err, "cannot write file %q", name)
	}
	log.LogVf("wlang: wrote %d bytes to %s", len(text.String()), name)
	return nil
}

func (exec *Execution) evalRead(s *ReadStmt) error {
	name, err := exec.evalFileName(s.File)
	if err != nil {
		return err
	}
	data, err := util.ReadFile(exec.engine.config.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ioFault(err, "no file named %q in the temporary directory", name)
		}
		return ioFault(err, "cannot read file %q", name)
	}
	exec.env.Set(s.Target, NewString(string(data)))
	return nil
}

// evalFileName requires a plain name inside the temporary directory.
func (exec *Execution) evalFileName(expr Expression) (string, error) {
	val, err := exec.evalExpression(expr)
	if err != nil {
		return "", err
	}
	if val.Kind() != KindString {
		return "", newFault(TypeError, "file name must be a string, got %s", describe(val))
	}
	name := val.Str()
	if !filepath.IsLocal(name) {
		return "", newFault(InputOutputError, "file name %q must stay inside the temporary directory", name)
	}
	return name, nil
}
