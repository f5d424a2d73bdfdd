package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matsen/citerius/internal/citation"
	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/download"
	"github.com/matsen/citerius/internal/editor"
	"github.com/matsen/citerius/internal/library"
	"github.com/matsen/citerius/internal/tui"
)

type emptyPrompt struct{}

func (emptyPrompt) YesNo(string, bool) (bool, error) { return false, nil }
func (emptyPrompt) Confirm(string) (bool, error)     { return false, nil }
func (emptyPrompt) Line(string) (string, error)      { return "", nil }

func TestMenuRunner_Cancelled(t *testing.T) {
	r := &menuRunner{session: &library.Session{
		Config: &config.Config{ReferencesDir: t.TempDir()},
		Prompt: emptyPrompt{},
	}}

	for _, a := range []tui.Action{tui.ActionRead, tui.ActionRemove, tui.ActionAddArxiv, tui.ActionAddPDF} {
		t.Run(a.String(), func(t *testing.T) {
			var out bytes.Buffer
			status, err := r.Run(context.Background(), a, nil, &out, &out)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if status != "Cancelled." {
				t.Errorf("status = %q, want Cancelled.", status)
			}
		})
	}
}

type failingPrompt struct{ emptyPrompt }

func (failingPrompt) Line(string) (string, error) {
	return "", errors.New("read from the process terminal")
}

func TestMenuRunner_UsesMenuStreams(t *testing.T) {
	confirm := &download.Downloader{}
	ed := editor.New("true")
	s := &library.Session{
		Config:     &config.Config{ReferencesDir: t.TempDir()},
		Prompt:     failingPrompt{},
		Downloader: confirm,
		Citations:  &citation.Service{Editor: ed},
	}
	r := &menuRunner{session: s}

	var out, errOut bytes.Buffer
	in := strings.NewReader("\n")
	status, err := r.Run(context.Background(), tui.ActionAddArxiv, in, &out, &errOut)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if status != "Cancelled." {
		t.Errorf("status = %q, want Cancelled.", status)
	}
	if !strings.Contains(out.String(), "arXiv identifier:") {
		t.Errorf("question not written to the menu output: %q", out.String())
	}
	if confirm.Confirm != s.Prompt {
		t.Error("overwrite questions still go to the old prompter")
	}
	if ed.Stdin != in || ed.Stdout != &out || ed.Stderr != &errOut {
		t.Error("editor not attached to the menu streams")
	}
}
