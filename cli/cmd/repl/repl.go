package repl

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DmitryKokorin/grantlee/engine"
	"github.com/DmitryKokorin/grantlee/inherit"
	"github.com/DmitryKokorin/grantlee/loadertags"
	"github.com/DmitryKokorin/grantlee/log"
	"github.com/DmitryKokorin/grantlee/template"
)

const (
	prompt     = "❯ "
	sourceName = "<repl>"
)

func helpMessage() string {
	return `
Type template text and press Enter to render it against the loaded data.
When templates were named on the command line, the typed text extends
them, so {% block title %}...{% endblock %} overrides their blocks.

Commands:

  :blocks          List the blocks of the extended templates
  :data            Print the render data as YAML
  :set KEY VALUE   Set a string in the render data
  :clear           Clear screen
  :help            Print this help
  :quit            Exit

Keys:
  Tab / Shift-Tab  Cycle through completions
  Esc              Abandon tab-cycling
  Up / Down        Navigate history
  Ctrl+C on empty input or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	engine       *engine.Engine
	chain        []*template.Template
	data         map[string]any
	complete     completions
	logger       log.Logger
	history      *History
	input        textinput.Model
	matches      fuzzy.Matches // current fuzzy match results
	preTabText   string        // input text before tab-cycling began
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int
	width        int
	tabActive    bool
	quitting     bool
}

// Run starts an interactive session rendering typed text with eng against
// data. Typed text extends the templates named by chain, most derived
// first.
func Run(
	ctx context.Context,
	eng *engine.Engine,
	data map[string]any,
	chain []string,
	historyPath string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if eng == nil {
		return ErrNoEngine
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", historyPath),
		slog.Any("chain", chain),
	)

	templates := make([]*template.Template, 0, len(chain))

	for _, name := range chain {
		tmpl, err := eng.Load(ctx, name)
		if err != nil {
			return err
		}

		templates = append(templates, tmpl)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "repl history not loaded", slog.Any("error", err))
	}

	m := newModel(ctx, eng, templates, data, history, logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	eng *engine.Engine,
	chain []*template.Template,
	data map[string]any,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	if data == nil {
		data = make(map[string]any)
	}

	var blocks []string

	for _, tmpl := range chain {
		for _, b := range loadertags.Blocks(tmpl.Nodes) {
			blocks = append(blocks, b.Name())
		}
	}

	slices.Sort(blocks)

	return model{
		ctxFunc: func() context.Context { return ctx },
		engine:  eng,
		chain:   chain,
		data:    data,
		complete: completions{
			data:   data,
			tags:   append(eng.Library().Names(), loadertags.EndTag),
			blocks: slices.Compact(blocks),
		},
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		input:      ti,
		width:      defaultWidth,
		suggIdx:    -1,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render("Type template text, or :help"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)
		}

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle selects the next (dir > 0) or previous completion candidate. A
// sole candidate is accepted immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n
	case dir > 0:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = n - 1
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the word under completion with replacement
// and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	start := min(m.wordStart, len(input))
	end := min(max(m.wordEnd, start), len(input))

	m.input.SetValue(input[:start] + replacement + input[end:])
	m.input.SetCursor(start + len(replacement))

	m.wordEnd = start + len(replacement)
}

// refreshMatches recomputes completions. With autoConfirm, a typed word
// equal to the sole remaining candidate closes the completion bar.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) historyMove(dir int) model {
	idx := m.historyIdx + dir

	switch {
	case idx < 0:
		return m
	case idx >= m.history.Len():
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
	default:
		line, err := m.history.Get(idx)
		if err != nil {
			return m
		}

		m.historyIdx = idx
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
	}

	m.tabActive = false
	refreshMatches(&m, false)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := m.input.Value()
	if strings.TrimSpace(input) == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil
	m.tabActive = false

	if err := m.history.Write(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "repl history not saved", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(input))

	if cmd, ok := strings.CutPrefix(strings.TrimSpace(input), ":"); ok {
		return m.executeCommand(echo, cmd)
	}

	out, err := m.evaluate(input)
	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl render failed", slog.Any("error", err))

		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

// evaluate parses src, composes it over the session's chain, and renders
// the result.
func (m model) evaluate(src string) (string, error) {
	ctx := m.ctxFunc()

	tmpl, err := m.engine.ParseString(ctx, sourceName, src)
	if err != nil {
		return "", err
	}

	if len(m.chain) > 0 {
		tmpl, err = inherit.Compose(append([]*template.Template{tmpl}, m.chain...)...)
		if err != nil {
			return "", err
		}
	}

	return m.engine.Render(ctx, tmpl, m.data)
}

func (m model) executeCommand(echo tea.Cmd, input string) (model, tea.Cmd) {
	name, rest, _ := strings.Cut(strings.TrimSpace(input), " ")

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.String("args", rest),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "b", "blocks":
		return m, tea.Sequence(echo, tea.Println(m.listBlocks()))

	case "d", "data":
		b, err := yaml.MarshalContext(m.ctxFunc(), m.data)
		if err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(string(b)))

	case "s", "set":
		key, value, ok := strings.Cut(strings.TrimSpace(rest), " ")
		if !ok || key == "" {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("usage: :set KEY VALUE")))
		}

		m.data[key] = value

		return m, echo

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("unknown command: "+name+" (try :help)"),
		))
	}
}

// listBlocks lists each block of the extended templates with the number of
// templates defining it.
func (m model) listBlocks() string {
	count := make(map[string]int)

	for _, tmpl := range m.chain {
		for _, b := range loadertags.Blocks(tmpl.Nodes) {
			count[b.Name()]++
		}
	}

	if len(count) == 0 {
		return hintStyle.Render("  (no blocks)")
	}

	var b strings.Builder

	for _, name := range slices.Sorted(maps.Keys(count)) {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(fmt.Sprintf("×%d", count[name])))
	}

	return strings.TrimSuffix(b.String(), "\n")
}
