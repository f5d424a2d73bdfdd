package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matsen/citerius/internal/citation"
	"github.com/matsen/citerius/internal/clipboard"
	"github.com/matsen/citerius/internal/download"
	"github.com/matsen/citerius/internal/editor"
	"github.com/matsen/citerius/internal/finder"
	"github.com/matsen/citerius/internal/library"
	"github.com/matsen/citerius/internal/prompt"
	"github.com/matsen/citerius/internal/reference"
	"github.com/matsen/citerius/internal/tui"
)

func init() {
	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive menu",
	Long: `Open the interactive menu. This is also what running citerius with no
arguments does.

Keys: j/k or arrows move, enter selects, h or esc goes back, q quits.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := requireTerminal("the interactive menu"); err != nil {
		return err
	}
	s, err := newSession()
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), &menuRunner{session: s}, s.Config.ReferencesDir)
}

// menuRunner performs the menu actions on a session.
type menuRunner struct {
	session *library.Session
}

func (r *menuRunner) Run(ctx context.Context, a tui.Action, in io.Reader, out, errOut io.Writer) (string, error) {
	r.attach(in, out, errOut)
	status, err := r.run(ctx, a)
	if errors.Is(err, library.ErrCancelled) || errors.Is(err, finder.ErrNoSelection) {
		return "Cancelled.", nil
	}
	return status, err
}

// attach points prompts, overwrite questions, the editor and log output at
// the streams handed over by the menu.
func (r *menuRunner) attach(in io.Reader, out, errOut io.Writer) {
	s := r.session
	s.Out = out
	if errOut != nil && s.Logger != nil {
		s.Logger.SetOutput(errOut)
	}
	if in == nil || out == nil {
		return
	}

	p := prompt.New(in, out)
	s.Prompt = p
	if d, ok := s.Downloader.(*download.Downloader); ok {
		d.Confirm = p
	}
	if c, ok := s.Citations.(*citation.Service); ok {
		if e, ok := c.Editor.(*editor.Editor); ok {
			e.Stdin, e.Stdout = in, out
			if errOut != nil {
				e.Stderr = errOut
			}
		}
	}
}

func (r *menuRunner) run(ctx context.Context, a tui.Action) (string, error) {
	s := r.session
	switch a {
	case tui.ActionRead:
		label, err := s.FuzzyFindLabel(ctx)
		if err != nil {
			return "", err
		}
		if err := s.Read(label); err != nil {
			return "", err
		}
		return "Opened " + label, nil

	case tui.ActionGetLabel:
		label, err := s.FuzzyFindLabel(ctx)
		if err != nil {
			return "", err
		}
		if err := clipboard.Copy(label); err != nil {
			s.Logger.Debug("clipboard copy failed", "err", err)
			return "Label: " + label, nil
		}
		return fmt.Sprintf("Copied %s to the clipboard", label), nil

	case tui.ActionRemove:
		label, err := s.FuzzyFindLabel(ctx)
		if err != nil {
			return "", err
		}
		if err := s.Remove(ctx, label); err != nil {
			return "", err
		}
		return "Removed " + label, nil

	case tui.ActionAddArxiv:
		return r.add(ctx, "arXiv identifier:", reference.KindArxiv)
	case tui.ActionAddLink:
		return r.add(ctx, "Link to the paper:", reference.KindLink)
	case tui.ActionAddPDF:
		return r.add(ctx, "Path to the PDF:", reference.KindLocalFile)

	case tui.ActionSync:
		if err := s.Sync(ctx); err != nil {
			return "", err
		}
		return "Synced with the remote repository", nil
	}
	return "", fmt.Errorf("unknown action %v", a)
}

func (r *menuRunner) add(ctx context.Context, question string, kind reference.Kind) (string, error) {
	target, err := r.session.Prompt.Line(question)
	if err != nil {
		return "", err
	}
	if target == "" {
		return "", library.ErrCancelled
	}
	paper, err := r.session.Add(ctx, target, kind, library.AddOptions{})
	if err != nil {
		return "", err
	}
	return "Added " + paper.Label, nil
}
