package wlang

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"fortio.org/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

const (
	DefaultMaxIterations = 1000
	DefaultMaxLines      = 1000
)

// Config controls execution limits and the host collaborators a script can
// reach through its built-in statements.
type Config struct {
	// MaxIterations caps the body runs of each while loop execution.
	MaxIterations int
	// MaxLines caps the line count of one compiled source.
	MaxLines int
	// RecursionLimit caps nested call depth. Zero leaves recursion bounded
	// only by the host stack.
	RecursionLimit int

	Stdout      io.Writer
	Diagnostics io.Writer
	Console     Console

	// FS is the directory write and read resolve names in. When nil an
	// osfs rooted at TempDir (or os.TempDir) is used.
	FS      billy.Filesystem
	TempDir string

	Now    func() time.Time
	Sleep  func(ctx context.Context, d time.Duration) error
	Random *rand.Rand
}

// Engine compiles W sources and creates sessions that run them.
type Engine struct {
	config Config
}

// NewEngine constructs an Engine, filling unset fields with defaults.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.MaxIterations < 0 {
		return nil, fmt.Errorf("wlang: max iterations must not be negative, got %d", cfg.MaxIterations)
	}
	if cfg.MaxLines < 0 {
		return nil, fmt.Errorf("wlang: max lines must not be negative, got %d", cfg.MaxLines)
	}
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("wlang: recursion limit must not be negative, got %d", cfg.RecursionLimit)
	}

	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.MaxLines == 0 {
		cfg.MaxLines = DefaultMaxLines
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = cfg.Stdout
	}
	if cfg.Console == nil {
		cfg.Console = NewReaderConsole(os.Stdin, cfg.Stdout)
	}
	if cfg.FS == nil {
		dir := cfg.TempDir
		if dir == "" {
			dir = os.TempDir()
		}
		cfg.FS = osfs.New(dir, osfs.WithBoundOS())
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	if cfg.Random == nil {
		cfg.Random = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}

	return &Engine{config: cfg}, nil
}

// MustNewEngine is like NewEngine but panics on an invalid Config.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// Config returns the engine's configuration with defaults applied.
func (e *Engine) Config() Config {
	return e.config
}

// Script is a parsed program ready to execute.
type Script struct {
	program   *Program
	source    string
	firstLine int
}

func (s *Script) Statements() []Statement {
	return s.program.Statements
}

func (s *Script) Source() string {
	return s.source
}

func (e *Engine) Compile(source string) (*Script, error) {
	return e.CompileFrom(source, 1)
}

// CompileFrom parses source whose first line is numbered firstLine. Load
// errors come back as an ErrorList and nothing of source is kept.
func (e *Engine) CompileFrom(source string, firstLine int) (*Script, error) {
	if firstLine < 1 {
		firstLine = 1
	}
	if lines := countLines(source); lines > e.config.MaxLines {
		err := newError(ParseError, firstLine+e.config.MaxLines,
			"script has %d lines, the limit is %d", lines, e.config.MaxLines)
		return nil, ErrorList{err}
	}

	p := newParser(source, firstLine)
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		log.Debugf("wlang: compile failed with %d error(s), first: %v", len(errs), errs[0])
		return nil, errs
	}
	log.Debugf("wlang: compiled %d top-level statement(s) from line %d", len(program.Statements), firstLine)
	return &Script{program: program, source: source, firstLine: firstLine}, nil
}

// Run compiles and executes source in a fresh session.
func (e *Engine) Run(ctx context.Context, source string) (*Report, error) {
	return e.NewSession().Run(ctx, source)
}

func countLines(source string) int {
	if source == "" {
		return 0
	}
	n := strings.Count(source, "\n")
	if !strings.HasSuffix(source, "\n") {
		n++
	}
	return n
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
