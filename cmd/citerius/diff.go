package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matsen/citerius/internal/git"
	"github.com/matsen/citerius/internal/reference"
)

var recentLimit int

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "number", "n", 10, "Number of papers to show")
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(recentCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff [commit]",
	Short: "Show papers added or removed since a commit",
	Long: `Show papers added or removed in papers.csv since a commit (default HEAD).

Examples:
  citerius diff
  citerius diff HEAD~5`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runDiff,
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recently added papers",
	Long:  `Show the papers added by the most recent commits, newest first.`,
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runRecent,
}

// DiffResult is the JSON response for the diff command.
type DiffResult struct {
	Since   string            `json:"since"`
	Added   []reference.Paper `json:"added"`
	Removed []reference.Paper `json:"removed"`
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ref := "HEAD"
	if len(args) == 1 {
		ref = args[0]
	}

	diff, err := git.DiffSince(cfg.ReferencesDir, ref)
	if err != nil {
		if errors.Is(err, git.ErrCommitNotFound) {
			return usageError{err}
		}
		return err
	}

	if jsonOutput {
		return outputJSON(DiffResult{Since: ref, Added: papersOrEmpty(diff.Added), Removed: papersOrEmpty(diff.Removed)})
	}
	if len(diff.Added) == 0 && len(diff.Removed) == 0 {
		outputHuman("No changes since %s.\n", ref)
		return nil
	}
	outputHuman("Changes since %s:\n", ref)
	for _, p := range diff.Added {
		outputHuman("  + %s  %s\n", p.Label, truncate(p.Title, ListTitleMaxLen))
	}
	for _, p := range diff.Removed {
		outputHuman("  - %s  %s\n", p.Label, truncate(p.Title, ListTitleMaxLen))
	}
	return nil
}

func runRecent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	recent, err := git.RecentlyAdded(cfg.ReferencesDir, recentLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		if recent == nil {
			recent = []git.RecentPaper{}
		}
		return outputJSON(recent)
	}
	if len(recent) == 0 {
		outputHuman("No papers added yet.\n")
		return nil
	}
	for _, r := range recent {
		outputHuman("  %s  %s  %s\n", r.CommitSHA, r.Paper.Label, truncate(r.Paper.Title, ListTitleMaxLen))
	}
	return nil
}
