package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open [label]",
	Short: "Open a paper's PDF in the configured reader",
	Long: `Open <label>/<label>.pdf with the reader set by pdf_reader in the config.
Without a label, the paper is chosen with the fuzzy finder.

Examples:
  citerius open VaswaniAttention2017
  citerius open`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	var label string
	if len(args) == 1 {
		label = args[0]
	} else {
		if err := requireTerminal("choosing a paper"); err != nil {
			return err
		}
		if label, err = s.FuzzyFindLabel(cmd.Context()); err != nil {
			return err
		}
	}

	if err := s.Read(label); err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(StatusResponse{Status: "opened", Path: s.Config.PDFPath(label)})
	}
	return nil
}
