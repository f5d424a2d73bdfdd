// Package editor runs the user's text editor on a temporary file.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DefaultCommand is used when neither the config nor the environment names an editor.
const DefaultCommand = "vim"

// ErrFailed is returned when the editor exits with a non-zero status.
var ErrFailed = errors.New("editor exited with an error")

// Editor runs an editor command on a file. Command may carry arguments,
// e.g. "code --wait".
type Editor struct {
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns an Editor attached to the process terminal. An empty command
// falls back to $VISUAL, then $EDITOR, then vim.
func New(command string) *Editor {
	return &Editor{
		Command: Resolve(command),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Resolve picks the editor command to run.
func Resolve(command string) string {
	for _, c := range []string{command, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return DefaultCommand
}

// Edit writes initial to a temporary file, opens it in the editor and
// returns what the user saved.
func (e *Editor) Edit(ctx context.Context, initial string) (string, error) {
	args := strings.Fields(e.Command)
	if len(args) == 0 {
		return "", fmt.Errorf("no editor command configured")
	}

	f, err := os.CreateTemp("", "citerius-*.bib")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s: %v", ErrFailed, args[0], err)
		}
		return "", fmt.Errorf("running editor %s: %w", args[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading edited file: %w", err)
	}
	return string(data), nil
}
