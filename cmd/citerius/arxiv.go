package main

import (
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/matsen/citerius/internal/arxiv"
	"github.com/matsen/citerius/internal/config"
)

// SummaryWrapWidth is the wrap width for abstracts in arxiv info.
const SummaryWrapWidth = 76

var arxivMax int

func init() {
	arxivSearchCmd.Flags().IntVar(&arxivMax, "max", arxiv.DefaultSearchLimit, "Maximum results to return")
	arxivCmd.AddCommand(arxivSearchCmd)
	arxivCmd.AddCommand(arxivInfoCmd)
	rootCmd.AddCommand(arxivCmd)
}

var arxivCmd = &cobra.Command{
	Use:   "arxiv",
	Short: "Query the arXiv API",
}

var arxivSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search arXiv, most relevant first",
	Long: `Search arXiv across all fields, most relevant first.

Add a result with: citerius --download --arxiv <id>

Examples:
  citerius arxiv search "protein language models"
  citerius arxiv search transformers --max 5 --json`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: runArxivSearch,
}

var arxivInfoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show the arXiv metadata of a paper",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE:  runArxivInfo,
}

// arxivClient builds a client from the config when there is one. These
// commands do not touch the references directory, so a missing config is fine.
func arxivClient() *arxiv.Client {
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = &config.Config{}
	}
	return newArxivClient(cfg)
}

func runArxivSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	entries, err := arxivClient().Search(cmd.Context(), query, arxivMax)
	if err != nil {
		return err
	}

	if jsonOutput {
		if entries == nil {
			entries = []arxiv.Entry{}
		}
		return outputJSON(entries)
	}
	if len(entries) == 0 {
		outputHuman("No arXiv results for %q\n", query)
		return nil
	}
	for i, e := range entries {
		outputHuman("%d. %s  %s\n", i+1, e.ID, truncate(e.Title, SearchTitleMaxLen))
		outputHuman("   %s (%s)\n\n", truncate(strings.Join(e.Authors, ", "), SearchTitleMaxLen), e.Year())
	}
	return nil
}

func runArxivInfo(cmd *cobra.Command, args []string) error {
	entry, err := arxivClient().Lookup(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(entry)
	}
	outputHuman("%s\n", entry.Title)
	outputHuman("  id:       %s%s\n", entry.ID, entry.Version)
	outputHuman("  authors:  %s\n", strings.Join(entry.Authors, ", "))
	outputHuman("  year:     %s\n", entry.Year())
	outputHuman("  pdf:      %s\n", entry.PDFURL)
	if entry.Summary != "" {
		outputHuman("\n%s\n", indent.String(wordwrap.String(entry.Summary, SummaryWrapWidth), 2))
	}
	return nil
}
