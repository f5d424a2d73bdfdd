package main

import (
	"github.com/spf13/cobra"
)

var listLimit int

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum papers to list (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the papers in the index",
	Long: `List the papers in the index, ordered by label.

Examples:
  citerius list
  citerius list --limit 20 --json`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	papers, total, err := s.List(listLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(papersOrEmpty(papers))
	}
	switch {
	case len(papers) == 0:
		outputHuman("No papers in the index\n")
		return nil
	case listLimit > 0 && listLimit < total:
		outputHuman("%d papers (showing first %d):\n\n", total, len(papers))
	default:
		outputHuman("%d papers:\n\n", len(papers))
	}
	printPapers(papers, ListTitleMaxLen)
	return nil
}
