package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matsen/citerius/internal/ident"
	"github.com/matsen/citerius/internal/library"
	"github.com/matsen/citerius/internal/reference"
)

// ErrInvalidArgumentCombination is returned when the action and target
// flags do not form a supported pair.
var ErrInvalidArgumentCombination = errors.New("invalid argument combination")

// Root command flag names.
const (
	flagDownload = "download"
	flagRemove   = "remove"
	flagFzf      = "fzf"
	flagAuto     = "auto"
	flagLabel    = "label"
	flagArxiv    = "arxiv"
	flagLink     = "link"
	flagPDF      = "pdf"
	flagFile     = "file"
	flagAll      = "all"
)

type action string

const (
	actionNone     action = ""
	actionDownload action = flagDownload
	actionRemove   action = flagRemove
	actionFzf      action = flagFzf
)

// targetFlags lists the target flags in the order they are reported.
var targetFlags = []string{flagAuto, flagLabel, flagArxiv, flagLink, flagPDF, flagFile, flagAll}

// supportedTargets lists the targets each action accepts. An empty target
// means the action was given alone.
var supportedTargets = map[action][]string{
	actionDownload: {"", flagAuto, flagArxiv, flagLink, flagPDF, flagFile, flagAll},
	actionRemove:   {"", flagLabel, flagFzf, flagAll},
	actionFzf:      {""},
}

// invocation is a validated action/target pair.
type invocation struct {
	action action
	target string // target flag name, "" when none
	value  string
}

// changedFlags returns the root flags set on the command line with their
// values. Boolean flags explicitly set to false are left out.
func changedFlags(cmd *cobra.Command) map[string]string {
	set := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Value.Type() == "bool" && f.Value.String() != "true" {
			return
		}
		set[f.Name] = f.Value.String()
	})
	return set
}

// parseInvocation validates the action and target flags. No flag at all is
// the zero invocation, which starts the menu.
func parseInvocation(set map[string]string) (invocation, error) {
	isSet := func(name string) bool {
		_, ok := set[name]
		return ok
	}

	var actions []action
	for _, a := range []action{actionDownload, actionRemove} {
		if isSet(string(a)) {
			actions = append(actions, a)
		}
	}
	var targets []string
	for _, t := range targetFlags {
		if isSet(t) {
			targets = append(targets, t)
		}
	}
	// --fzf is the action when given alone and the label source otherwise.
	if isSet(flagFzf) {
		if len(actions) == 0 {
			actions = append(actions, actionFzf)
		} else {
			targets = append(targets, flagFzf)
		}
	}

	switch {
	case len(actions) > 1:
		return invocation{}, fmt.Errorf("%w: only one of --download and --remove may be given", ErrInvalidArgumentCombination)
	case len(targets) > 1:
		return invocation{}, fmt.Errorf("%w: only one target may be given, got --%s", ErrInvalidArgumentCombination, strings.Join(targets, ", --"))
	case len(actions) == 0 && len(targets) > 0:
		return invocation{}, fmt.Errorf("%w: --%s needs an action (--download or --remove)", ErrInvalidArgumentCombination, targets[0])
	case len(actions) == 0:
		return invocation{}, nil
	}

	inv := invocation{action: actions[0]}
	if len(targets) == 1 {
		inv.target = targets[0]
		if inv.target != flagAll && inv.target != flagFzf {
			inv.value = strings.TrimSpace(set[inv.target])
		}
	}
	if !supports(inv.action, inv.target) {
		if inv.target == "" {
			return invocation{}, fmt.Errorf("%w: --%s needs a target", ErrInvalidArgumentCombination, inv.action)
		}
		return invocation{}, fmt.Errorf("%w: --%s cannot be used with --%s", ErrInvalidArgumentCombination, inv.action, inv.target)
	}
	if inv.value == "" && inv.target != "" && inv.target != flagAll && inv.target != flagFzf {
		return invocation{}, fmt.Errorf("%w: --%s needs a value", ErrInvalidArgumentCombination, inv.target)
	}
	return inv, nil
}

func supports(a action, target string) bool {
	for _, t := range supportedTargets[a] {
		if t == target {
			return true
		}
	}
	return false
}

// runInvocation performs a validated invocation.
func runInvocation(ctx context.Context, s *library.Session, inv invocation) error {
	switch inv.action {
	case actionDownload:
		return runDownload(ctx, s, inv)
	case actionRemove:
		return runRemove(ctx, s, inv)
	case actionFzf:
		if err := requireTerminal("--fzf"); err != nil {
			return err
		}
		label, err := s.FuzzyFindLabel(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, label)
		return nil
	}
	return fmt.Errorf("%w: unknown action %q", ErrInvalidArgumentCombination, inv.action)
}

func runDownload(ctx context.Context, s *library.Session, inv invocation) error {
	switch inv.target {
	case flagAll:
		_, err := s.FetchMissing(ctx)
		return err
	case flagFile:
		_, err := s.AddBulk(ctx, inv.value)
		return err
	}

	target, kind, err := downloadTarget(s, inv)
	if err != nil {
		return err
	}
	paper, err := s.Add(ctx, target, kind, library.AddOptions{})
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(paper)
	}
	outputHuman("Added %s\n", paper.Label)
	return nil
}

// downloadTarget resolves the target and its kind, asking for one when
// --download was given alone.
func downloadTarget(s *library.Session, inv invocation) (string, reference.Kind, error) {
	switch inv.target {
	case flagArxiv:
		return inv.value, reference.KindArxiv, nil
	case flagLink:
		return inv.value, reference.KindLink, nil
	case flagPDF:
		info, err := os.Stat(inv.value)
		if err != nil {
			return "", 0, fmt.Errorf("PDF %s: %w", inv.value, err)
		}
		if !info.Mode().IsRegular() {
			return "", 0, fmt.Errorf("PDF %s is not a regular file", inv.value)
		}
		return inv.value, reference.KindLocalFile, nil
	case flagAuto:
		return inv.value, ident.Classify(inv.value), nil
	}

	answer, err := s.Prompt.Line("Enter an arXiv id, a link or the path of a PDF:")
	if err != nil {
		return "", 0, err
	}
	if answer == "" {
		return "", 0, library.ErrCancelled
	}
	return answer, ident.Classify(answer), nil
}

func runRemove(ctx context.Context, s *library.Session, inv invocation) error {
	switch inv.target {
	case flagAll:
		return s.RemoveAll(ctx)
	case flagLabel:
		return s.Remove(ctx, inv.value)
	}

	if err := requireTerminal("choosing a paper"); err != nil {
		return err
	}
	label, err := s.FuzzyFindLabel(ctx)
	if err != nil {
		return err
	}
	return s.Remove(ctx, label)
}
