package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// replDriver plays the role of the bubbletea runtime: it runs commands on
// goroutines and feeds their messages back into the model.
type replDriver struct {
	t     *testing.T
	model replModel
	msgs  chan tea.Msg
}

func newREPLDriver(t *testing.T) *replDriver {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	model, err := newREPLModel(fileConfig{})
	if err != nil {
		t.Fatalf("newREPLModel: %v", err)
	}
	model.initialized = true
	model.width = 80
	model.height = 40
	return &replDriver{t: t, model: model, msgs: make(chan tea.Msg, 64)}
}

func (d *replDriver) dispatch(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		d.msgs <- cmd()
	}()
}

func (d *replDriver) send(msg tea.Msg) tea.Cmd {
	d.t.Helper()
	updated, cmd := d.model.Update(msg)
	model, ok := updated.(replModel)
	if !ok {
		d.t.Fatalf("expected replModel, got %T", updated)
	}
	d.model = model
	return cmd
}

// enter types line and presses enter, then waits until the script finishes
// or asks for input.
func (d *replDriver) enter(line string) {
	d.t.Helper()
	d.model.textInput.SetValue(line)
	d.dispatch(d.send(tea.KeyMsg{Type: tea.KeyEnter}))
	d.settle()
}

func (d *replDriver) settle() {
	d.t.Helper()
	timeout := time.After(5 * time.Second)
	for d.model.running && d.model.pendingInput == nil {
		select {
		case msg := <-d.msgs:
			switch typed := msg.(type) {
			case nil, tea.QuitMsg:
			case tea.BatchMsg:
				for _, cmd := range typed {
					d.dispatch(cmd)
				}
			default:
				d.dispatch(d.send(msg))
			}
		case <-timeout:
			d.t.Fatalf("script did not finish")
		}
	}
}

func (d *replDriver) outputs() []string {
	var lines []string
	for _, entry := range d.model.history {
		if entry.input == "" {
			lines = append(lines, entry.output)
		}
	}
	return lines
}

func TestREPLQuitCommand(t *testing.T) {
	d := newREPLDriver(t)
	d.model.textInput.SetValue(":quit")
	cmd := d.send(tea.KeyMsg{Type: tea.KeyEnter})
	if !d.model.quitting {
		t.Fatalf("expected :quit to mark the model as quitting")
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestREPLHelpTogglesPanel(t *testing.T) {
	d := newREPLDriver(t)
	d.model.textInput.SetValue(":help")
	d.send(tea.KeyMsg{Type: tea.KeyEnter})
	if !d.model.showHelp {
		t.Fatalf("expected help panel to be shown")
	}
	if !strings.Contains(d.model.View(), ":reset") {
		t.Fatalf("expected help panel in view")
	}
}

func TestREPLUnknownCommand(t *testing.T) {
	d := newREPLDriver(t)
	d.model.textInput.SetValue(":bogus")
	d.send(tea.KeyMsg{Type: tea.KeyEnter})
	last := d.model.history[len(d.model.history)-1]
	if !last.isErr || last.output != "Unknown command: :bogus" {
		t.Fatalf("unexpected history entry: %+v", last)
	}
}

func TestREPLEvaluatesAndKeepsState(t *testing.T) {
	d := newREPLDriver(t)
	d.enter("int 4 'x'")
	d.enter("show 'x' * 3")
	d.enter("show 1 / 0")

	got := d.outputs()
	want := []string{"12", "Error on line 3: DivisionByZero: division by zero"}
	if len(got) != len(want) {
		t.Fatalf("unexpected outputs: %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output %d: want %q, got %q", i, want[i], got[i])
		}
	}
	if !d.model.history[len(d.model.history)-1].isErr {
		t.Fatalf("expected diagnostic to be marked as an error")
	}
	if len(d.model.cmdHistory) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(d.model.cmdHistory))
	}
}

func TestREPLBuffersOpenBlocks(t *testing.T) {
	d := newREPLDriver(t)
	d.enter("func greet")
	if d.model.textInput.Prompt != continuationPrompt {
		t.Fatalf("expected continuation prompt, got %q", d.model.textInput.Prompt)
	}
	if d.model.running {
		t.Fatalf("open block should not start evaluation")
	}
	d.enter(`show "hi"`)
	d.enter("done")
	if d.model.textInput.Prompt != linePrompt {
		t.Fatalf("expected prompt to be restored, got %q", d.model.textInput.Prompt)
	}
	d.enter("call greet")

	got := d.outputs()
	if len(got) != 1 || got[0] != "hi" {
		t.Fatalf("unexpected outputs: %q", got)
	}
	if d.model.cmdHistory[0] != "func greet\nshow \"hi\"\ndone" {
		t.Fatalf("expected block stored as one history entry, got %q", d.model.cmdHistory[0])
	}
}

func TestREPLInputRequest(t *testing.T) {
	d := newREPLDriver(t)
	d.enter("input 'name'")
	if d.model.pendingInput == nil {
		t.Fatalf("expected pending input request")
	}
	if d.model.textInput.Prompt != d.model.pendingInput.prompt {
		t.Fatalf("expected input prompt to replace the REPL prompt")
	}

	d.model.textInput.SetValue("Ada")
	d.dispatch(d.send(tea.KeyMsg{Type: tea.KeyEnter}))
	d.settle()
	d.enter("show 'name'")

	got := d.outputs()
	if len(got) != 1 || got[0] != "Ada" {
		t.Fatalf("unexpected outputs: %q", got)
	}
}

func TestREPLClearOutput(t *testing.T) {
	d := newREPLDriver(t)
	d.enter(`show "before"`)
	d.enter("clear-output")
	d.enter(`show "after"`)

	got := d.outputs()
	if len(got) != 1 || got[0] != "after" {
		t.Fatalf("unexpected outputs after clear-output: %q", got)
	}
}

func TestREPLResetForgetsState(t *testing.T) {
	d := newREPLDriver(t)
	d.enter("int 1 'x'")
	d.model.textInput.SetValue(":reset")
	d.send(tea.KeyMsg{Type: tea.KeyEnter})
	if len(d.model.state.vars) != 0 || len(d.model.session.Env().Names()) != 0 {
		t.Fatalf("expected reset to clear variables")
	}
	if d.model.state.nextLine != 1 || d.model.session.NextLine() != 1 {
		t.Fatalf("expected reset to restart line numbering")
	}
}

func TestREPLAutocomplete(t *testing.T) {
	d := newREPLDriver(t)
	d.enter("int 1 'counter'")
	d.model.textInput.SetValue("show 'coun")
	d.send(tea.KeyMsg{Type: tea.KeyTab})
	if got := d.model.textInput.Value(); got != "show 'counter" {
		t.Fatalf("unexpected completion: %q", got)
	}
}

func TestREPLVarsPanel(t *testing.T) {
	d := newREPLDriver(t)
	d.enter("int 7 'x'")
	panel := renderVarsPanel(d.model.state.vars)
	if !strings.Contains(panel, "= 7") {
		t.Fatalf("expected variable in panel, got %q", panel)
	}
}

func TestREPLViewWhileLoopRuns(t *testing.T) {
	d := newREPLDriver(t)
	d.enter("int 0 'i'")
	d.model.showVars = true

	d.enter("while true")
	d.enter("'i' + 1 = 'i'")
	d.enter("show 'i'")
	d.model.textInput.SetValue("done")
	d.dispatch(d.send(tea.KeyMsg{Type: tea.KeyEnter}))
	if !d.model.running {
		t.Fatalf("expected loop to be running")
	}

	timeout := time.After(5 * time.Second)
	for seen := 0; seen < 40 && d.model.running; {
		select {
		case msg := <-d.msgs:
			switch typed := msg.(type) {
			case nil, tea.QuitMsg:
			case tea.BatchMsg:
				for _, cmd := range typed {
					d.dispatch(cmd)
				}
			default:
				d.dispatch(d.send(msg))
				seen++
			}
			view := d.model.View()
			if d.model.running && !strings.Contains(view, "= 0") {
				t.Fatalf("vars panel should show the state from before the run:\n%s", view)
			}
		case <-timeout:
			t.Fatalf("loop produced no output")
		}
	}

	if d.model.running {
		d.send(tea.KeyMsg{Type: tea.KeyCtrlC})
		d.settle()
	}
	if d.model.quitting {
		t.Fatalf("interrupting a script should not quit the REPL")
	}
	if len(d.model.state.vars) != 1 || d.model.state.vars[0].value == "0" {
		t.Fatalf("expected state captured after the run, got %+v", d.model.state.vars)
	}
	if d.model.state.nextLine != 6 {
		t.Fatalf("expected next line 6, got %d", d.model.state.nextLine)
	}
}

func TestEventWriterSplitsLines(t *testing.T) {
	events := make(chan tea.Msg, 8)
	w := &eventWriter{events: events, isErr: true}
	if _, err := w.Write([]byte("one\ntw")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := w.Write([]byte("o\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	close(events)

	var got []outputMsg
	for msg := range events {
		got = append(got, msg.(outputMsg))
	}
	if len(got) != 2 || got[0].text != "one" || got[1].text != "two" || !got[1].isErr {
		t.Fatalf("unexpected messages: %+v", got)
	}
}
