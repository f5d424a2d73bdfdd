// Package pdf opens stored papers and reads metadata hints out of local PDFs.
package pdf

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrPDFNotFound is returned when a paper has no downloaded PDF.
var ErrPDFNotFound = errors.New("PDF not found")

// Opener opens PDF files with the configured reader.
type Opener struct {
	reader string
	goos   string
}

// NewOpener creates an opener. reader is "system", a known viewer name
// (skim, preview, zathura, evince, okular) or any command to run with the
// file as its last argument.
func NewOpener(reader string) *Opener {
	if strings.TrimSpace(reader) == "" {
		reader = "system"
	}
	return &Opener{reader: reader, goos: runtime.GOOS}
}

// Open starts the reader on path without waiting for it to exit.
func (o *Opener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPDFNotFound, path)
		}
		return fmt.Errorf("checking PDF file: %w", err)
	}

	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	return nil
}

// Command returns the command that opens path.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	switch o.reader {
	case "skim", "preview":
		if o.goos != "darwin" {
			return nil, fmt.Errorf("%s is only available on macOS", o.reader)
		}
		app := map[string]string{"skim": "Skim", "preview": "Preview"}[o.reader]
		return exec.Command("open", "-a", app, path), nil
	case "system":
		switch o.goos {
		case "darwin":
			return exec.Command("open", path), nil
		case "linux", "freebsd", "openbsd":
			return exec.Command("xdg-open", path), nil
		default:
			return nil, fmt.Errorf("unsupported platform: %s", o.goos)
		}
	default:
		args := strings.Fields(o.reader)
		return exec.Command(args[0], append(args[1:], path)...), nil
	}
}
