package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matsen/citerius/internal/bib"
	"github.com/matsen/citerius/internal/citation"
	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/finder"
	"github.com/matsen/citerius/internal/library"
)

func TestParseInvocation(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]string
		want    invocation
		wantErr bool
	}{
		{name: "no flags starts the menu", set: map[string]string{}, want: invocation{}},
		{name: "download alone", set: map[string]string{"download": "true"}, want: invocation{action: actionDownload}},
		{name: "download arxiv", set: map[string]string{"download": "true", "arxiv": "2504.18006"},
			want: invocation{action: actionDownload, target: flagArxiv, value: "2504.18006"}},
		{name: "download link", set: map[string]string{"download": "true", "link": " https://x.org/a "},
			want: invocation{action: actionDownload, target: flagLink, value: "https://x.org/a"}},
		{name: "download auto", set: map[string]string{"download": "true", "auto": "a.pdf"},
			want: invocation{action: actionDownload, target: flagAuto, value: "a.pdf"}},
		{name: "download pdf", set: map[string]string{"download": "true", "pdf": "a.pdf"},
			want: invocation{action: actionDownload, target: flagPDF, value: "a.pdf"}},
		{name: "download file", set: map[string]string{"download": "true", "file": "list.txt"},
			want: invocation{action: actionDownload, target: flagFile, value: "list.txt"}},
		{name: "download all", set: map[string]string{"download": "true", "all": "true"},
			want: invocation{action: actionDownload, target: flagAll}},
		{name: "remove alone", set: map[string]string{"remove": "true"}, want: invocation{action: actionRemove}},
		{name: "remove label", set: map[string]string{"remove": "true", "label": "Doe2020"},
			want: invocation{action: actionRemove, target: flagLabel, value: "Doe2020"}},
		{name: "remove fzf", set: map[string]string{"remove": "true", "fzf": "true"},
			want: invocation{action: actionRemove, target: flagFzf}},
		{name: "remove all", set: map[string]string{"remove": "true", "all": "true"},
			want: invocation{action: actionRemove, target: flagAll}},
		{name: "fzf alone", set: map[string]string{"fzf": "true"}, want: invocation{action: actionFzf}},

		{name: "two actions", set: map[string]string{"download": "true", "remove": "true"}, wantErr: true},
		{name: "two targets", set: map[string]string{"download": "true", "arxiv": "1", "link": "x"}, wantErr: true},
		{name: "target without action", set: map[string]string{"label": "Doe2020"}, wantErr: true},
		{name: "download label", set: map[string]string{"download": "true", "label": "Doe2020"}, wantErr: true},
		{name: "download fzf", set: map[string]string{"download": "true", "fzf": "true"}, wantErr: true},
		{name: "remove arxiv", set: map[string]string{"remove": "true", "arxiv": "2504.18006"}, wantErr: true},
		{name: "remove label and fzf", set: map[string]string{"remove": "true", "label": "a", "fzf": "true"}, wantErr: true},
		{name: "fzf with target", set: map[string]string{"fzf": "true", "label": "Doe2020"}, wantErr: true},
		{name: "empty label", set: map[string]string{"remove": "true", "label": ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInvocation(tt.set)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgumentCombination) {
					t.Fatalf("parseInvocation() error = %v, want ErrInvalidArgumentCombination", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseInvocation() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseInvocation() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "citerius"}
	cmd.Flags().Bool(flagRemove, false, "")
	cmd.Flags().Bool(flagAll, false, "")
	cmd.Flags().String(flagLabel, "", "")
	if err := cmd.ParseFlags([]string{"--remove", "--all=false", "--label", "Doe2020"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	got := changedFlags(cmd)
	if len(got) != 2 || got[flagRemove] != "true" || got[flagLabel] != "Doe2020" {
		t.Errorf("changedFlags() = %v", got)
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{library.ErrCancelled, ExitSuccess},
		{fmt.Errorf("picking: %w", finder.ErrNoSelection), ExitSuccess},
		{fmt.Errorf("%w: two actions", ErrInvalidArgumentCombination), ExitUsageError},
		{usageError{errors.New("unknown flag: --foo")}, ExitUsageError},
		{fmt.Errorf("%w: /x/config.json", config.ErrConfigNotFound), ExitConfigError},
		{config.ErrInvalidConfig, ExitConfigError},
		{fmt.Errorf("%w: 9999.99999", citation.ErrCitationNotFound), ExitDataError},
		{bib.ErrCitationParse, ExitDataError},
		{fmt.Errorf("%w: Doe2020", library.ErrLabelNotFound), ExitDataError},
		{library.ErrLabelExists, ExitDataError},
		{errors.New("network down"), ExitError},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestNoArgs(t *testing.T) {
	if err := noArgs(rootCmd, nil); err != nil {
		t.Errorf("noArgs(nil) error = %v", err)
	}
	err := noArgs(rootCmd, []string{"frobnicate"})
	if !isUsageError(err) {
		t.Errorf("noArgs() error = %v, want a usage error", err)
	}
}
