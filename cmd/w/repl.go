package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Wicin-134/W/wlang"
)

// replTheme holds every style the full-screen REPL renders with.
type replTheme struct {
	prompt lipgloss.Style
	output lipgloss.Style
	fault  lipgloss.Style
	muted  lipgloss.Style
	title  lipgloss.Style
	key    lipgloss.Style
	desc   lipgloss.Style
	name   lipgloss.Style
	panel  lipgloss.Style
	label  lipgloss.Style
}

func newREPLTheme() replTheme {
	var (
		primary = lipgloss.Color("#0EA5E9")
		ok      = lipgloss.Color("#22C55E")
		bad     = lipgloss.Color("#F43F5E")
		dim     = lipgloss.Color("#71717A")
		warm    = lipgloss.Color("#EAB308")
	)
	return replTheme{
		prompt: lipgloss.NewStyle().Foreground(primary).Bold(true),
		output: lipgloss.NewStyle().Foreground(ok),
		fault:  lipgloss.NewStyle().Foreground(bad),
		muted:  lipgloss.NewStyle().Foreground(dim),
		title:  lipgloss.NewStyle().Foreground(primary).Bold(true).Padding(0, 1),
		key:    lipgloss.NewStyle().Foreground(warm),
		desc:   lipgloss.NewStyle().Foreground(dim),
		name:   lipgloss.NewStyle().Foreground(warm),
		panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1),
		label:  lipgloss.NewStyle().Foreground(primary).Bold(true),
	}
}

var theme = newREPLTheme()

// Messages sent from the evaluating goroutine to the UI, in order, over
// replModel.events.
type (
	outputMsg struct {
		text  string
		isErr bool
	}
	inputRequestMsg struct {
		prompt string
		reply  chan<- string
	}
	clearOutputMsg struct{}
	evalDoneMsg    struct {
		err   error
		state sessionState
	}
)

// sessionState is a copy of what the UI shows about a session. It is taken
// on the goroutine that owns the session, so View and Update never read the
// live Env while a script is running.
type sessionState struct {
	vars     []boundVar
	funcs    []string
	nextLine int
}

type boundVar struct {
	name  string
	value string
}

func captureSession(s *wlang.Session) sessionState {
	env := s.Env()
	names := env.Names()
	state := sessionState{
		vars:     make([]boundVar, 0, len(names)),
		funcs:    env.FunctionNames(),
		nextLine: s.NextLine(),
	}
	for _, name := range names {
		val, _ := env.Get(name)
		state.vars = append(state.vars, boundVar{name: name, value: val.String()})
	}
	return state
}

func (st sessionState) varNames() []string {
	names := make([]string, len(st.vars))
	for i, v := range st.vars {
		names[i] = v.name
	}
	return names
}

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput textinput.Model
	prompt    string

	engine  *wlang.Engine
	session *wlang.Session
	state   sessionState
	console *replConsole
	events  chan tea.Msg

	running      bool
	cancel       context.CancelFunc
	pendingInput *inputRequestMsg
	buffer       []string

	history    []historyEntry
	cmdHistory []string
	historyIdx int

	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Prev      key.Binding
	Next      key.Binding
	Submit    key.Binding
	Interrupt key.Binding
	Quit      key.Binding
	Clear     key.Binding
	Complete  key.Binding
	Vars      key.Binding
	Help      key.Binding
}

func binding(k, help, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(k), key.WithHelp(help, desc))
}

var keys = keyMap{
	Prev:      binding("up", "↑", "previous input"),
	Next:      binding("down", "↓", "next input"),
	Submit:    binding("enter", "enter", "execute"),
	Interrupt: binding("ctrl+c", "ctrl+c", "interrupt or quit"),
	Quit:      binding("ctrl+d", "ctrl+d", "quit"),
	Clear:     binding("ctrl+l", "ctrl+l", "clear"),
	Complete:  binding("tab", "tab", "autocomplete"),
	Vars:      binding("ctrl+v", "ctrl+v", "vars"),
	Help:      binding("ctrl+k", "ctrl+k", "help"),
}

func newREPLModel(cfg fileConfig) (replModel, error) {
	prompt := cfg.promptOr(linePrompt)
	ti := textinput.New()
	ti.Placeholder = "type a statement..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = theme.prompt
	ti.Prompt = prompt

	events := make(chan tea.Msg, 64)
	console := &replConsole{events: events, ctx: context.Background()}

	engineCfg := cfg.engineConfig()
	engineCfg.Stdout = &eventWriter{events: events}
	engineCfg.Diagnostics = &eventWriter{events: events, isErr: true}
	engineCfg.Console = console
	engine, err := wlang.NewEngine(engineCfg)
	if err != nil {
		return replModel{}, err
	}

	session := engine.NewSession()
	return replModel{
		textInput:  ti,
		prompt:     prompt,
		engine:     engine,
		session:    session,
		state:      captureSession(session),
		console:    console,
		events:     events,
		historyIdx: -1,
	}, nil
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case outputMsg:
		m.history = append(m.history, historyEntry{output: msg.text, isErr: msg.isErr})
		return m, waitForEvent(m.events)

	case clearOutputMsg:
		m.history = nil
		return m, waitForEvent(m.events)

	case inputRequestMsg:
		m.pendingInput = &msg
		m.textInput.Prompt = msg.prompt
		m.textInput.SetValue("")
		return m, waitForEvent(m.events)

	case evalDoneMsg:
		m.running = false
		m.state = msg.state
		m.pendingInput = nil
		m.textInput.Prompt = m.prompt
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		if msg.err != nil && wlang.KindOf(msg.err) == 0 {
			m.history = append(m.history, historyEntry{output: "interrupted", isErr: true})
		}
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleKey runs the REPL's own bindings. Keys it does not claim go to the
// text input.
func (m replModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Interrupt):
		if m.running {
			m.cancel()
			return m, nil, true
		}
		m.quitting = true
		return m, tea.Quit, true
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit, true
	case key.Matches(msg, keys.Clear):
		m.history = nil
	case key.Matches(msg, keys.Vars):
		m.showVars = !m.showVars
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, keys.Prev):
		m = m.recall(-1)
	case key.Matches(msg, keys.Next):
		m = m.recall(1)
	case key.Matches(msg, keys.Complete):
		if !m.running {
			m = m.handleAutocomplete()
		}
	case key.Matches(msg, keys.Submit):
		next, cmd := m.handleEnter()
		return next, cmd, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

// recall steps through submitted sources. Stepping past the newest entry
// empties the input.
func (m replModel) recall(step int) replModel {
	if m.pendingInput != nil || len(m.cmdHistory) == 0 {
		return m
	}
	switch {
	case m.historyIdx == -1 && step < 0:
		m.historyIdx = len(m.cmdHistory) - 1
	case m.historyIdx == -1:
		return m
	default:
		m.historyIdx = min(max(m.historyIdx+step, 0), len(m.cmdHistory))
	}
	if m.historyIdx == len(m.cmdHistory) {
		m.historyIdx = -1
		m.textInput.SetValue("")
	} else {
		m.textInput.SetValue(m.cmdHistory[m.historyIdx])
	}
	m.textInput.CursorEnd()
	return m
}

func (m replModel) handleEnter() (tea.Model, tea.Cmd) {
	raw := m.textInput.Value()
	m.textInput.SetValue("")
	m.historyIdx = -1

	if m.pendingInput != nil {
		request := m.pendingInput
		m.pendingInput = nil
		m.textInput.Prompt = m.prompt
		m.history = append(m.history, historyEntry{input: request.prompt + raw})
		request.reply <- raw
		return m, nil
	}
	if m.running {
		return m, nil
	}

	input := strings.TrimSpace(raw)
	if len(m.buffer) == 0 {
		if input == "" {
			return m, nil
		}
		if strings.HasPrefix(input, ":") {
			return m.handleCommand(input)
		}
	}

	m.buffer = append(m.buffer, raw)
	m.history = append(m.history, historyEntry{input: raw})
	source := strings.Join(m.buffer, "\n")
	if _, err := m.engine.Compile(source); wlang.IsIncomplete(err) {
		m.textInput.Prompt = continuationPrompt
		return m, nil
	}

	m.buffer = nil
	m.textInput.Prompt = m.prompt
	m.cmdHistory = append(m.cmdHistory, source)
	return m.startEval(source)
}

// startEval runs source on a background goroutine. Its output, input
// requests and completion all arrive through m.events.
func (m replModel) startEval(source string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.console.ctx = ctx

	session := m.session
	events := m.events
	eval := func() tea.Msg {
		_, err := session.Run(ctx, source)
		events <- evalDoneMsg{err: err, state: captureSession(session)}
		return nil
	}
	return m, tea.Batch(eval, waitForEvent(events))
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m replModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = nil
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":funcs", ":f":
		names := m.state.funcs
		output := "No functions defined"
		if len(names) > 0 {
			output = "Functions: " + strings.Join(names, ", ")
		}
		m.history = append(m.history, historyEntry{input: input, output: output})
	case ":reset", ":r":
		m.session.Reset()
		m.state = captureSession(m.session)
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Session reset",
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	word := lastWord(input)
	if word == "" {
		return m
	}

	completions := wlang.Complete(word, completionCandidates(m.state.varNames(), m.state.funcs))
	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, word)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

func (m replModel) View() string {
	switch {
	case !m.initialized:
		return "Loading..."
	case m.quitting:
		return theme.muted.Render("Goodbye!\n")
	}

	var b strings.Builder
	status := fmt.Sprintf("line %d", m.state.nextLine)
	if m.running {
		status = "running... ctrl+c to interrupt"
	}
	fmt.Fprintf(&b, "%s %s\n", theme.title.Render("W REPL"), theme.muted.Render(status))
	b.WriteString(theme.muted.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))))
	b.WriteString("\n\n")

	for _, entry := range m.visibleHistory() {
		b.WriteString(renderEntry(entry))
	}
	b.WriteString("\n")

	if m.showVars {
		b.WriteString(renderVarsPanel(m.state.vars) + "\n")
	}
	if m.showHelp {
		b.WriteString(renderHelpPanel() + "\n")
	}

	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	b.WriteString(renderFooter())
	return b.String()
}

// visibleHistory trims history to what fits above the input line and the
// open panels.
func (m replModel) visibleHistory() []historyEntry {
	reserved := 6
	if m.showHelp {
		reserved += len(helpRows) + 2
	}
	if m.showVars {
		reserved += len(m.state.vars) + 3
	}
	room := max(m.height-reserved, 1)
	if len(m.history) <= room {
		return m.history
	}
	return m.history[len(m.history)-room:]
}

func renderEntry(entry historyEntry) string {
	switch {
	case entry.input != "":
		line := theme.muted.Render("  › ") + entry.input + "\n"
		if entry.output != "" {
			line += "    " + theme.output.Render(entry.output) + "\n"
		}
		return line
	case entry.isErr:
		return "  " + theme.fault.Render("✗ "+entry.output) + "\n"
	default:
		return "  " + theme.output.Render(entry.output) + "\n"
	}
}

func renderFooter() string {
	parts := make([]string, 0, 4)
	for _, kb := range []key.Binding{keys.Help, keys.Vars, keys.Clear, keys.Quit} {
		h := kb.Help()
		parts = append(parts, theme.key.Render(h.Key)+" "+theme.desc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

func renderVarsPanel(vars []boundVar) string {
	if len(vars) == 0 {
		return theme.panel.Render(theme.muted.Render("No variables defined"))
	}

	lines := []string{theme.label.Render("Variables")}
	for _, v := range vars {
		lines = append(lines, fmt.Sprintf("  %s = %s", theme.name.Render(v.name), v.value))
	}
	return theme.panel.Render(strings.Join(lines, "\n"))
}

var helpRows = [][2]string{
	{"↑/↓", "Navigate input history"},
	{"Tab", "Autocomplete"},
	{"Enter", "Execute, or continue an open block"},
	{"Ctrl+C", "Interrupt a running script"},
	{":help", "Toggle this help"},
	{":vars", "Toggle variables panel"},
	{":funcs", "List defined functions"},
	{":clear", "Clear history"},
	{":reset", "Forget variables and functions"},
	{":quit", "Exit REPL"},
}

func renderHelpPanel() string {
	lines := []string{theme.label.Render("Help")}
	for _, row := range helpRows {
		lines = append(lines, fmt.Sprintf("  %s  %s", theme.key.Render(fmt.Sprintf("%-8s", row[0])), theme.desc.Render(row[1])))
	}
	return theme.panel.Render(strings.Join(lines, "\n"))
}

// eventWriter turns script output into outputMsg values, one per line.
type eventWriter struct {
	events chan<- tea.Msg
	isErr  bool

	mu      sync.Mutex
	partial strings.Builder
}

func (w *eventWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.partial.Write(p)
	text := w.partial.String()
	for {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			break
		}
		w.events <- outputMsg{text: text[:idx], isErr: w.isErr}
		text = text[idx+1:]
	}
	w.partial.Reset()
	w.partial.WriteString(text)
	return len(p), nil
}

// replConsole forwards input requests to the UI and waits for the answer.
type replConsole struct {
	events chan<- tea.Msg
	ctx    context.Context
}

func (c *replConsole) ReadLine(prompt string) (string, error) {
	reply := make(chan string, 1)
	select {
	case c.events <- inputRequestMsg{prompt: prompt, reply: reply}:
	case <-c.ctx.Done():
		return "", c.ctx.Err()
	}
	select {
	case line := <-reply:
		return line, nil
	case <-c.ctx.Done():
		return "", c.ctx.Err()
	}
}

func (c *replConsole) ClearScreen() error {
	select {
	case c.events <- clearOutputMsg{}:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

func runREPL(cfg fileConfig) error {
	model, err := newREPLModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
