// Package finder lets the user pick one line out of many with a fuzzy finder.
package finder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
)

// Finder modes accepted by New.
const (
	ModeAuto    = "auto"
	ModeFzf     = "fzf"
	ModeBuiltin = "builtin"
)

// ErrNoSelection is returned when the user aborts or picks nothing.
var ErrNoSelection = errors.New("nothing selected")

// Finder returns the index of the line the user picked.
type Finder interface {
	Find(ctx context.Context, prompt string, lines []string) (int, error)
}

// New returns the finder for mode. In auto mode fzf is used when it is on
// PATH, and the built-in finder otherwise.
func New(mode string) (Finder, error) {
	switch mode {
	case ModeFzf:
		return &Fzf{Path: "fzf"}, nil
	case ModeBuiltin:
		return Builtin{}, nil
	case ModeAuto, "":
		if path, err := exec.LookPath("fzf"); err == nil {
			return &Fzf{Path: path}, nil
		}
		return Builtin{}, nil
	default:
		return nil, fmt.Errorf("unknown finder %q", mode)
	}
}

// Fzf runs the external fzf program.
type Fzf struct {
	Path string
	Args []string
}

// Find pipes lines to fzf and maps its output back to an index.
func (f *Fzf) Find(ctx context.Context, prompt string, lines []string) (int, error) {
	if len(lines) == 0 {
		return -1, ErrNoSelection
	}

	args := append([]string{"--prompt", prompt + "> "}, f.Args...)
	cmd := exec.CommandContext(ctx, f.Path, args...)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")
	cmd.Stderr = os.Stderr
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		// fzf exits 1 on no match and 130 on interrupt.
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 1 || exitErr.ExitCode() == 130) {
			return -1, ErrNoSelection
		}
		return -1, fmt.Errorf("running fzf: %w", err)
	}

	picked := strings.TrimRight(out.String(), "\r\n")
	if picked == "" {
		return -1, ErrNoSelection
	}
	for i, line := range lines {
		if line == picked {
			return i, nil
		}
	}
	return -1, fmt.Errorf("fzf returned an unknown line %q", picked)
}

// Builtin is the in-process finder used when fzf is unavailable.
type Builtin struct{}

// Find opens a full-screen fuzzy finder on the terminal.
func (Builtin) Find(ctx context.Context, prompt string, lines []string) (int, error) {
	if len(lines) == 0 {
		return -1, ErrNoSelection
	}
	idx, err := fuzzyfinder.Find(
		lines,
		func(i int) string {
			return lines[i]
		},
		fuzzyfinder.WithPromptString(prompt+"> "),
		fuzzyfinder.WithContext(ctx),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return -1, ErrNoSelection
		}
		return -1, fmt.Errorf("fuzzy finder: %w", err)
	}
	return idx, nil
}
