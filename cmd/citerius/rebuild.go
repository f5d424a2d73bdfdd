package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search cache from papers.csv",
	Long: `Rebuild the SQLite search cache from papers.csv.

The cache is rebuilt automatically when papers.csv changes; use this if the
cache is corrupted.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	count, err := s.RebuildCache()
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(StatusResponse{Status: "rebuilt", Path: s.Config.DBPath(), Count: count})
	}
	outputHuman("Rebuilt search cache with %d papers\n", count)
	return nil
}
