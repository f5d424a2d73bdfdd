package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/citerius/internal/library"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare the references directory",
	Long: `Prepare the references directory named in the config.

Creates, when missing:
  <references_dir>/
  ├── papers.csv         # Header only
  ├── bibliography.bib   # Empty
  ├── .gitignore         # Ignores the local .citerius/ cache
  └── .git/              # git init`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	res, err := library.Init(cfg)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(res)
	}
	if len(res.Created) == 0 && !res.GitInit {
		outputHuman("%s is already initialized\n", cfg.ReferencesDir)
		return nil
	}
	for _, path := range res.Created {
		outputHuman("Created %s\n", path)
	}
	if res.GitInit {
		outputHuman("Initialized git repository in %s\n", cfg.ReferencesDir)
	}
	return nil
}
