package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"fortio.org/log"
	"github.com/mattn/go-isatty"

	"github.com/Wicin-134/W/wlang"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	engineOpts := registerEngineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("w run: script path required")
	}
	cfg, err := engineOpts.resolve(fs)
	if err != nil {
		return err
	}
	scriptPath, input, err := readScript(remaining[0])
	if err != nil {
		return err
	}

	console, closeConsole := newConsole()
	defer closeConsole()

	engineCfg := cfg.engineConfig()
	engineCfg.Stdout = os.Stdout
	engineCfg.Console = console
	engine, err := wlang.NewEngine(engineCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := engine.Run(ctx, input)
	if err != nil {
		if wlang.KindOf(err) != 0 {
			return fmt.Errorf("w run: %s did not load", scriptPath)
		}
		return fmt.Errorf("execution interrupted: %w", err)
	}
	log.LogVf("%s finished with %d fault(s), ended=%v", scriptPath, len(report.Faults), report.Ended)
	return nil
}

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	engineOpts := registerEngineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("w check: script path required")
	}
	cfg, err := engineOpts.resolve(fs)
	if err != nil {
		return err
	}
	scriptPath, input, err := readScript(remaining[0])
	if err != nil {
		return err
	}

	engine, err := wlang.NewEngine(cfg.engineConfig())
	if err != nil {
		return err
	}
	_, err = engine.Compile(input)
	if err == nil {
		return nil
	}
	var list wlang.ErrorList
	if !errors.As(err, &list) {
		return fmt.Errorf("compile failed: %w", err)
	}
	for _, e := range list {
		fmt.Println(e.Error())
		if frame := wlang.CodeFrame(input, e); frame != "" {
			fmt.Println(frame)
		}
	}
	return fmt.Errorf("w check: %s has %d error(s)", scriptPath, len(list))
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	plain := fs.Bool("plain", false, "use the line-editing REPL instead of the full-screen one")
	engineOpts := registerEngineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := engineOpts.resolve(fs)
	if err != nil {
		return err
	}
	if *plain || !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runLineREPL(cfg)
	}
	return runREPL(cfg)
}

func readScript(path string) (string, string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(absPath)
	if err != nil {
		return "", "", fmt.Errorf("read script: %w", err)
	}
	return absPath, string(input), nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run <script.w>        load and execute a script")
	fmt.Fprintln(os.Stderr, "  check <script.w>      report load errors without executing")
	fmt.Fprintln(os.Stderr, "  repl [-plain]         start an interactive session")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <paths...>")
	fmt.Fprintln(os.Stderr, "                        normalize whitespace and block indentation")
	fmt.Fprintln(os.Stderr, "  analyze <script.w>    report likely mistakes")
	fmt.Fprintln(os.Stderr, "  lsp                   serve the language server protocol on stdio")
	fmt.Fprintln(os.Stderr, "Engine flags (run, check, repl):")
	fmt.Fprintln(os.Stderr, "  -config <file>        YAML config (default $HOME/.w.yaml)")
	fmt.Fprintln(os.Stderr, "  -max-iterations <n>   while loop cap (default 1000)")
	fmt.Fprintln(os.Stderr, "  -max-lines <n>        script line cap (default 1000)")
	fmt.Fprintln(os.Stderr, "  -max-depth <n>        call depth cap (default unlimited)")
	fmt.Fprintln(os.Stderr, "  -tempdir <dir>        directory for write and read")
	fmt.Fprintln(os.Stderr, "  -debug                enable debug logging")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
