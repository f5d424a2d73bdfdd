package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeRunner struct {
	ran    []Action
	status string
	err    error
}

func (r *fakeRunner) Run(_ context.Context, a Action, _ io.Reader, out, _ io.Writer) (string, error) {
	r.ran = append(r.ran, a)
	io.WriteString(out, "running "+a.String()+"\n")
	return r.status, r.err
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, c := m.Update(msg)
		m = next.(Model)
		cmd = c
	}
	return m, cmd
}

func TestNavigation(t *testing.T) {
	m := New(context.Background(), &fakeRunner{}, "/refs")

	m, _ = press(t, m, "j", "j", "k")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}

	m, _ = press(t, m, "enter")
	if m.current != menuAdd || m.cursor != 0 {
		t.Fatalf("after enter: menu = %v cursor = %d, want add menu at 0", m.current, m.cursor)
	}

	m, _ = press(t, m, "esc")
	if m.current != menuMain {
		t.Errorf("esc should return to the main menu, got %v", m.current)
	}

	m, _ = press(t, m, "h")
	if m.current != menuMain {
		t.Errorf("back on the main menu should stay put, got %v", m.current)
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m := New(context.Background(), &fakeRunner{}, "")

	m, _ = press(t, m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d after k at top, want 0", m.cursor)
	}
	m, _ = press(t, m, "j", "j", "j", "j", "j", "down")
	if want := len(menus[menuMain].items) - 1; m.cursor != want {
		t.Errorf("cursor = %d, want %d", m.cursor, want)
	}
}

func TestReturnItem(t *testing.T) {
	m := New(context.Background(), &fakeRunner{}, "")
	m, _ = press(t, m, "j", "j", "enter") // Sync Manager
	if m.current != menuSync {
		t.Fatalf("menu = %v, want sync", m.current)
	}
	m, _ = press(t, m, "j", "enter") // Return
	if m.current != menuMain {
		t.Errorf("Return should open the main menu, got %v", m.current)
	}
}

func TestQuit(t *testing.T) {
	for _, keys := range [][]string{{"q"}, {"j", "j", "j", "enter"}} {
		m := New(context.Background(), &fakeRunner{}, "")
		_, cmd := press(t, m, keys...)
		if cmd == nil {
			t.Fatalf("%v: expected a quit command", keys)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: command did not quit", keys)
		}
	}
}

func TestSelectActionRuns(t *testing.T) {
	runner := &fakeRunner{status: "Copied VaswaniAttention2017"}
	m := New(context.Background(), runner, "")

	m, cmd := press(t, m, "enter", "j", "enter") // Browse > Get Paper Label
	if cmd == nil {
		t.Fatal("selecting an action should return a command")
	}
	if !m.running {
		t.Error("model should be marked running")
	}

	// Keys are ignored while the action runs.
	m, _ = press(t, m, "j")
	if m.cursor != 1 {
		t.Errorf("cursor moved while running: %d", m.cursor)
	}

	exec := &actionCommand{ctx: context.Background(), runner: runner, action: ActionGetLabel}
	var out bytes.Buffer
	exec.SetStdout(&out)
	if err := exec.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(runner.ran) != 1 || runner.ran[0] != ActionGetLabel {
		t.Errorf("ran = %v, want [get-label]", runner.ran)
	}
	if out.String() != "running get-label\n" {
		t.Errorf("output = %q", out.String())
	}

	next, _ := m.Update(actionDoneMsg{action: ActionGetLabel, status: exec.status})
	m = next.(Model)
	if m.running || m.failed {
		t.Errorf("running = %v failed = %v after success", m.running, m.failed)
	}
	if m.status != "Copied VaswaniAttention2017" {
		t.Errorf("status = %q", m.status)
	}
}

func TestActionError(t *testing.T) {
	m := New(context.Background(), &fakeRunner{}, "")
	m.running = true

	next, _ := m.Update(actionDoneMsg{action: ActionRemove, err: errors.New("label not found")})
	m = next.(Model)
	if !m.failed {
		t.Error("failed should be set")
	}
	if !strings.Contains(m.status, "remove: label not found") {
		t.Errorf("status = %q", m.status)
	}
	if !strings.Contains(m.View(), "label not found") {
		t.Error("View() should show the error")
	}
}

func TestView(t *testing.T) {
	m := New(context.Background(), &fakeRunner{}, "/home/ada/references")
	view := m.View()
	for _, want := range []string{"citerius", "/home/ada/references", "Main Menu", "Browse/Manage Papers", "Sync Manager", "Ready."} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	m = next.(Model)
	if m.width != 30 {
		t.Errorf("width = %d, want 30", m.width)
	}
}
