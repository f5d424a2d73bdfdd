// Package tui implements the interactive menu shown when citerius runs with
// no arguments.
package tui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// Runner performs menu actions. Run is called with the terminal released
// from the TUI, so it may prompt, start an editor or run fzf. The returned
// string is shown in the status bar.
type Runner interface {
	Run(ctx context.Context, a Action, in io.Reader, out, errOut io.Writer) (string, error)
}

// Model is the menu state.
type Model struct {
	ctx    context.Context
	runner Runner
	title  string
	keys   KeyMap
	styles Styles
	help   help.Model

	current menuID
	cursor  int
	width   int

	status  string
	failed  bool
	running bool
}

// actionDoneMsg reports the end of an action run through tea.Exec.
type actionDoneMsg struct {
	action Action
	status string
	err    error
}

// New returns a menu that hands actions to runner. title is shown in the
// header, typically the references directory.
func New(ctx context.Context, runner Runner, title string) Model {
	return Model{
		ctx:    ctx,
		runner: runner,
		title:  title,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		help:   help.New(),
		width:  80,
		status: "Ready.",
	}
}

// Run starts the menu on the current terminal and blocks until the user quits.
func Run(ctx context.Context, runner Runner, title string) error {
	p := tea.NewProgram(New(ctx, runner, title), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case actionDoneMsg:
		m.running = false
		if msg.err != nil {
			m.failed = true
			m.status = msg.action.String() + ": " + msg.err.Error()
			return m, nil
		}
		m.failed = false
		m.status = msg.status
		if m.status == "" {
			m.status = "Done."
		}
		return m, nil

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := menus[m.current].items
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Back):
		if m.current != menuMain {
			m.open(menus[m.current].parent)
		}
	case key.Matches(msg, m.keys.Select):
		return m.selectItem(items[m.cursor])
	}
	return m, nil
}

func (m Model) selectItem(it item) (tea.Model, tea.Cmd) {
	switch {
	case it.quit:
		return m, tea.Quit
	case it.back:
		m.open(menus[m.current].parent)
		return m, nil
	case it.action != ActionNone:
		m.running = true
		m.status = "Running " + it.label + "..."
		return m, m.exec(it.action)
	default:
		m.open(it.open)
		return m, nil
	}
}

func (m *Model) open(id menuID) {
	m.current = id
	m.cursor = 0
}

// exec runs the action with the terminal released from the TUI.
func (m Model) exec(a Action) tea.Cmd {
	cmd := &actionCommand{ctx: m.ctx, runner: m.runner, action: a}
	return tea.Exec(cmd, func(err error) tea.Msg {
		return actionDoneMsg{action: a, status: cmd.status, err: err}
	})
}

func (m Model) View() string {
	var b strings.Builder

	header := "citerius"
	if m.title != "" {
		header += "  " + m.title
	}
	b.WriteString(m.styles.Header.Render(runewidth.Truncate(header, m.width-2, "…")))
	b.WriteString("\n")

	mn := menus[m.current]
	var panel strings.Builder
	panel.WriteString(m.styles.Title.Render(mn.title))
	panel.WriteString("\n")
	for i, it := range mn.items {
		label := runewidth.Truncate(it.label, m.width-10, "…")
		if i == m.cursor {
			panel.WriteString(m.styles.Selected.Render("> " + label))
		} else {
			panel.WriteString(m.styles.Item.Render(label))
		}
		panel.WriteString("\n")
	}
	b.WriteString(m.styles.Panel.Render(strings.TrimRight(panel.String(), "\n")))
	b.WriteString("\n")

	status := wordwrap.String(m.status, max(m.width-2, 20))
	if m.failed {
		b.WriteString(m.styles.Error.Render(status))
	} else {
		b.WriteString(m.styles.Status.Render(status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// actionCommand adapts a Runner call to tea.ExecCommand.
type actionCommand struct {
	ctx    context.Context
	runner Runner
	action Action

	stdin          io.Reader
	stdout, stderr io.Writer
	status         string
}

func (c *actionCommand) Run() error {
	status, err := c.runner.Run(c.ctx, c.action, c.stdin, c.stdout, c.stderr)
	c.status = status
	return err
}

func (c *actionCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *actionCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *actionCommand) SetStderr(w io.Writer) { c.stderr = w }
