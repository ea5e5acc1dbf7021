package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gitbridge "github.com/wippyai/git-bridge"
	"github.com/wippyai/git-bridge/script"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	paramStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// listWindow bounds how many catalogue rows render at once.
const listWindow = 14

type interactiveModel struct {
	err      error
	bridge   *gitbridge.Bridge
	repoPath string
	result   string
	ops      []opInfo
	history  []script.Value
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type opInfo struct {
	name string
	min  int
	max  int
	doc  string
}

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(repoPath string) *interactiveModel {
	return &interactiveModel{
		repoPath: repoPath,
		state:    stateSelectOp,
	}
}

type loadedMsg struct {
	err    error
	bridge *gitbridge.Bridge
	ops    []opInfo
	repo   script.Value
}

type callResultMsg struct {
	err   error
	value script.Value
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadBridge
}

func (m *interactiveModel) loadBridge() tea.Msg {
	bridge, err := gitbridge.New()
	if err != nil {
		return loadedMsg{err: err}
	}

	reg := bridge.Registry()
	var ops []opInfo
	for _, name := range reg.Names() {
		op, _ := reg.Lookup(name)
		ops = append(ops, opInfo{name: name, min: op.Min, max: op.Max, doc: op.Doc})
	}

	msg := loadedMsg{bridge: bridge, ops: ops}
	if m.repoPath != "" {
		repo, err := bridge.Call("git-repository-open", script.String(m.repoPath))
		if err != nil {
			bridge.Close()
			return loadedMsg{err: err}
		}
		msg.repo = repo
	}
	return msg
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.bridge != nil {
				m.bridge.Close()
			}
			return m, tea.Quit

		case "q":
			// Inside an input field "q" is just a letter.
			if m.state != stateInputArgs {
				if m.bridge != nil {
					m.bridge.Close()
				}
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(m.ops)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				if len(m.ops) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callOperation
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callOperation

			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectOp
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.bridge = msg.bridge
		m.ops = msg.ops
		if !msg.repo.IsNil() {
			m.history = append(m.history, msg.repo)
		}

	case callResultMsg:
		m.err = msg.err
		m.result = msg.value.String()
		if msg.err == nil && msg.value.Type() == script.TypeHandle {
			m.history = append(m.history, msg.value)
			m.result = fmt.Sprintf("%s = $%d", msg.value, len(m.history))
		}
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	op := m.ops[m.selected]
	m.inputs = make([]textinput.Model, op.max)
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = "value or $n"
		ti.Prompt = fmt.Sprintf("arg%d: ", i+1)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callOperation() tea.Msg {
	op := m.ops[m.selected]

	raw := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		raw[i] = input.Value()
	}
	// Trailing blanks are omitted arguments, interior blanks explicit nil.
	n := len(raw)
	for n > 0 && strings.TrimSpace(raw[n-1]) == "" {
		n--
	}
	args := make([]script.Value, 0, n)
	for _, r := range raw[:n] {
		args = append(args, parseArg(r, m.history))
	}

	value, err := m.bridge.Call(op.name, args...)
	return callResultMsg{value: value, err: err}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.bridge == nil {
		return "Wiring bridge..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Git Bridge"))
	if m.repoPath != "" {
		b.WriteString(" ")
		b.WriteString(m.repoPath)
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation to call:\n\n")
		start, end := m.listBounds()
		if start > 0 {
			b.WriteString(helpStyle.Render(fmt.Sprintf("  ... %d more above", start)))
			b.WriteString("\n")
		}
		for i := start; i < end; i++ {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + m.formatOp(m.ops[i])))
			} else {
				b.WriteString(cursor + m.formatOp(m.ops[i]))
			}
			b.WriteString("\n")
		}
		if end < len(m.ops) {
			b.WriteString(helpStyle.Render(fmt.Sprintf("  ... %d more below", len(m.ops)-end)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", opStyle.Render(op.name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			if i >= op.min {
				b.WriteString(" ")
				b.WriteString(paramStyle.Render("optional"))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", opStyle.Render(op.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	b.WriteString("\n\n")
	b.WriteString(m.sessionPane())

	return b.String()
}

// listBounds keeps the selection visible within the catalogue window.
func (m *interactiveModel) listBounds() (int, int) {
	start := 0
	if m.selected >= listWindow {
		start = m.selected - listWindow + 1
	}
	end := start + listWindow
	if end > len(m.ops) {
		end = len(m.ops)
	}
	return start, end
}

// sessionPane renders the handle history and the live wrapper store.
func (m *interactiveModel) sessionPane() string {
	var b strings.Builder

	if len(m.history) > 0 {
		for i, v := range m.history {
			b.WriteString(paramStyle.Render(fmt.Sprintf("$%d", i+1)))
			b.WriteString(" = ")
			b.WriteString(v.String())
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	entries := m.bridge.Store().Snapshot()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		return entries[i].Desc < entries[j].Desc
	})

	b.WriteString(helpStyle.Render(fmt.Sprintf("store: %d live wrapper(s)", len(entries))))
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString("  ")
		b.WriteString(paramStyle.Render(fmt.Sprintf("%-10s", e.Kind)))
		b.WriteString(fmt.Sprintf(" refs=%d", e.Refs))
		if e.Desc != "" {
			b.WriteString("  ")
			b.WriteString(helpStyle.Render(e.Desc))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m *interactiveModel) formatOp(op opInfo) string {
	line := opStyle.Render(op.name) + "(" + paramStyle.Render(arityArgs(op.min, op.max)) + ")"
	if op.doc != "" {
		line += "  " + helpStyle.Render(op.doc)
	}
	return line
}

func runInteractive(repoPath string) error {
	p := tea.NewProgram(newInteractiveModel(repoPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
