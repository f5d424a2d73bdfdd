// Package main provides the citerius CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags.
var (
	configPath string
	noConfirm  bool
	verbose    bool
	jsonOutput bool
)

func main() {
	// A .env next to the invocation may hold CITERIUS_* overrides.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		code := exitCodeFor(err)
		if code == ExitSuccess {
			return
		}
		stop()
		exitWithError(code, "%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citerius",
	Short: "Personal reference manager backed by a git repository",
	Long: `citerius keeps your papers in a references directory: one folder per
paper, a papers.csv index and a bibliography.bib, all tracked by git.

Run with no arguments for the interactive menu, or use the action flags:

  citerius --download --arxiv 2504.18006     add an arXiv paper
  citerius --download --link https://...     add a paper from a link
  citerius --download --pdf paper.pdf        add a local PDF
  citerius --download --file list.txt        add every paper listed in a file
  citerius --download --all                  fetch PDFs missing on disk
  citerius --remove --label Doe2020          remove a paper
  citerius --remove --fzf                    pick the paper to remove
  citerius --fzf                             print the label of a paper`,
	Args:          noArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to the config file (default $XDG_CONFIG_HOME/citerius/config.json)")
	pf.BoolVar(&noConfirm, "no-confirm", false, "Do not ask for confirmation; overwrites are declined")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	pf.BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	f := rootCmd.Flags()
	f.Bool(flagDownload, false, "Action: add a paper (or fetch missing PDFs with --all)")
	f.Bool(flagRemove, false, "Action: remove a paper")
	f.Bool(flagFzf, false, "Print the label of a paper chosen with a fuzzy finder; with --remove, choose the paper to remove")
	f.String(flagAuto, "", "Target: arXiv id, link or PDF path, detected automatically")
	f.String(flagLabel, "", "Target: label of an existing paper")
	f.String(flagArxiv, "", "Target: arXiv identifier")
	f.String(flagLink, "", "Target: URL of the paper")
	f.String(flagPDF, "", "Target: path to a local PDF")
	f.String(flagFile, "", "Target: file listing one arXiv id, link or PDF path per line")
	f.Bool(flagAll, false, "Target: every paper in the index")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	rootCmd.Version = Version
}

func runRoot(cmd *cobra.Command, args []string) error {
	inv, err := parseInvocation(changedFlags(cmd))
	if err != nil {
		return err
	}
	if inv.action == actionNone {
		return runTUI(cmd, args)
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	return runInvocation(cmd.Context(), s, inv)
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError{fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
	}
	return nil
}

// usageArgs reports argument validation failures as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// usageError marks errors caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var u usageError
	return errors.As(err, &u)
}
