package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"

	"github.com/Wicin-134/W/wlang"
)

const (
	linePrompt         = "w> "
	continuationPrompt = "... "
)

// lineREPL buffers input lines until they form a complete source and runs
// each complete source in one Session.
type lineREPL struct {
	engine  *wlang.Engine
	session *wlang.Session
	out     io.Writer
	buffer  []string
}

func newLineREPL(engine *wlang.Engine, out io.Writer) *lineREPL {
	return &lineREPL{engine: engine, session: engine.NewSession(), out: out}
}

// feed accepts one input line. It returns the source that ran, or "" when
// more lines are needed or nothing ran.
func (r *lineREPL) feed(ctx context.Context, line string) string {
	if len(r.buffer) == 0 {
		switch strings.TrimSpace(line) {
		case "":
			return ""
		case ":reset":
			r.session.Reset()
			fmt.Fprintln(r.out, "Session reset")
			return ""
		case ":vars":
			r.printVars()
			return ""
		case ":funcs":
			fmt.Fprintln(r.out, strings.Join(r.session.Env().FunctionNames(), " "))
			return ""
		}
	}

	r.buffer = append(r.buffer, line)
	source := strings.Join(r.buffer, "\n")
	if _, err := r.engine.Compile(source); wlang.IsIncomplete(err) {
		return ""
	}
	r.buffer = nil
	if _, err := r.session.Run(ctx, source); err != nil && wlang.KindOf(err) == 0 {
		fmt.Fprintf(r.out, "interrupted: %v\n", err)
	}
	return source
}

func (r *lineREPL) prompt(base string) string {
	if len(r.buffer) > 0 {
		return continuationPrompt
	}
	return base
}

// abandon drops a partially typed block.
func (r *lineREPL) abandon() {
	r.buffer = nil
}

func (r *lineREPL) printVars() {
	env := r.session.Env()
	names := env.Names()
	if len(names) == 0 {
		fmt.Fprintln(r.out, "No variables defined")
		return
	}
	for _, name := range names {
		val, _ := env.Get(name)
		fmt.Fprintf(r.out, "%s = %s\n", name, val)
	}
}

func (r *lineREPL) complete(line string) []string {
	word := lastWord(line)
	if word == "" {
		return nil
	}
	prefix := line[:len(line)-len(word)]
	env := r.session.Env()
	candidates := completionCandidates(env.Names(), env.FunctionNames())
	matches := wlang.Complete(word, candidates)
	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = prefix + match
	}
	return out
}

// completionCandidates lists keywords followed by the given names.
func completionCandidates(vars, funcs []string) []string {
	candidates := wlang.Keywords()
	candidates = append(candidates, vars...)
	candidates = append(candidates, funcs...)
	return candidates
}

// lastWord returns the trailing word of line without an opening quote.
func lastWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasSuffix(line, " ") {
		return ""
	}
	word := fields[len(fields)-1]
	return strings.TrimLeft(word, `'"`)
}

func runLineREPL(cfg fileConfig) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyFile := cfg.historyPath()
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			if _, err := state.ReadHistory(f); err != nil {
				log.Warnf("reading history %s: %v", historyFile, err)
			}
			_ = f.Close()
		}
	}

	engineCfg := cfg.engineConfig()
	engineCfg.Stdout = os.Stdout
	engineCfg.Console = &linerConsole{state: state, out: os.Stdout}
	engine, err := wlang.NewEngine(engineCfg)
	if err != nil {
		return err
	}
	repl := newLineREPL(engine, os.Stdout)
	state.SetCompleter(repl.complete)

	base := cfg.promptOr(linePrompt)
	for {
		line, err := state.Prompt(repl.prompt(base))
		if errors.Is(err, liner.ErrPromptAborted) {
			repl.abandon()
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Errf("reading input: %v", err)
			}
			break
		}
		if len(repl.buffer) == 0 && strings.TrimSpace(line) == "exit" {
			break
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		if source := repl.feed(ctx, line); source != "" {
			state.AppendHistory(source)
		}
		stop()
	}

	if historyFile != "" {
		f, err := os.Create(historyFile)
		if err != nil {
			log.Warnf("saving history %s: %v", historyFile, err)
			return nil
		}
		defer f.Close()
		if _, err := state.WriteHistory(f); err != nil {
			log.Warnf("saving history %s: %v", historyFile, err)
		}
	}
	return nil
}
