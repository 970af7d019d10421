package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"w", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"w", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"w"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandExecutesScript(t *testing.T) {
	isolateHome(t)
	scriptPath := writeScript(t, `int 5 'x'
'x' * 2 = 'y'
show 'y'
show 1 / 0
show "after"`)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	want := "10\nError on line 4: DivisionByZero: division by zero\nafter\n"
	if out != want {
		t.Fatalf("unexpected stdout:\nwant %q\ngot  %q", want, out)
	}
}

func TestRunCommandHonorsIterationFlag(t *testing.T) {
	isolateHome(t)
	scriptPath := writeScript(t, "0 = 'n'\nwhile true\n'n' + 1 = 'n'\ndone\nshow 'n'")

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-max-iterations", "3", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if !strings.HasSuffix(out, "3\n") {
		t.Fatalf("expected loop to stop after 3 iterations, got %q", out)
	}
}

func TestRunCommandLoadErrorFails(t *testing.T) {
	isolateHome(t)
	scriptPath := writeScript(t, "show 1\nwhile true\nshow 2")

	out, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected load failure")
	}
	if !strings.Contains(out, "Error on line 2: ParseError") {
		t.Fatalf("expected parse diagnostic, got %q", out)
	}
	if strings.HasPrefix(out, "1\n") {
		t.Fatalf("script ran despite load error: %q", out)
	}
}

func TestRunCommandRequiresScriptPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil {
		t.Fatalf("expected script path error")
	}
	if !strings.Contains(err.Error(), "script path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	isolateHome(t)
	good := writeScript(t, "show 1")
	if err := checkCommand([]string{good}); err != nil {
		t.Fatalf("check failed on valid script: %v", err)
	}

	bad := writeScript(t, "show 1\nshow )")
	out, err := captureStdout(t, func() error {
		return checkCommand([]string{bad})
	})
	if err == nil || !strings.Contains(err.Error(), "1 error(s)") {
		t.Fatalf("unexpected check error: %v", err)
	}
	if !strings.Contains(out, "2 | show )") {
		t.Fatalf("expected code frame, got %q", out)
	}
}

func TestAnalyzeCommandNoIssues(t *testing.T) {
	scriptPath := writeScript(t, `func greet
  show "hi"
done
call greet`)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("analyzeCommand failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected analyze output: %q", out)
	}
}

func TestAnalyzeCommandReportsIssues(t *testing.T) {
	scriptPath := writeScript(t, `show 1
END
show 2
call missing
while true
  show 3
done`)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected analyze command to report lint failures")
	}
	if !strings.Contains(err.Error(), "analysis found 3 issue(s)") {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	for _, want := range []string{":3:1: unreachable statement after END", ":4:1: unreachable", ":5:1: unreachable"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output %q", want, out)
		}
	}
}

func TestAnalyzeScriptWarningsInsideFunctions(t *testing.T) {
	scriptPath := writeScript(t, `func loop
  while true
    call helper
  done
done
call loop`)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected lint failures")
	}
	if !strings.Contains(out, "call to undefined function 'helper' (func loop)") {
		t.Fatalf("missing undefined call warning in %q", out)
	}
	if !strings.Contains(out, "while true loop can only stop at the iteration limit (func loop)") {
		t.Fatalf("missing while true warning in %q", out)
	}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.w")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// isolateHome points HOME at an empty directory so a developer's
// ~/.w.yaml does not leak into tests.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
