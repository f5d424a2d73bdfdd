package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// DefaultSearchLimit is the default number of search results.
const DefaultSearchLimit = 50

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the papers in the index",
	Long: `Full-text search over the titles, authors, years and labels in the index.

Prefix the query with author: or title: to search a single field.

Examples:
  citerius search attention
  citerius search author:Vaswani
  citerius search "title:protein folding"`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	papers, err := s.Search(query, searchLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(papersOrEmpty(papers))
	}
	if len(papers) == 0 {
		outputHuman("No papers match %q\n", query)
		return nil
	}
	outputHuman("%d papers match %q:\n\n", len(papers), query)
	printPapers(papers, SearchTitleMaxLen)
	return nil
}
