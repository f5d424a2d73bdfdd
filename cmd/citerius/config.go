package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matsen/citerius/internal/config"
)

var (
	configShowYAML bool
	configForce    bool
	configInitVals config.Config
)

func init() {
	f := configInitCmd.Flags()
	f.StringVar(&configInitVals.ReferencesDir, "references-dir", "", "Directory holding the papers (required)")
	f.StringVar(&configInitVals.AuthorName, "author-name", "", "Name used for commits (required)")
	f.StringVar(&configInitVals.AuthorEmail, "author-email", "", "Email used for commits (required)")
	f.StringVar(&configInitVals.Editor, "editor", "", "Editor for manual citations (default $VISUAL, $EDITOR, vim)")
	f.StringVar(&configInitVals.Finder, "finder", "", "Fuzzy finder: auto, fzf or builtin")
	f.StringVar(&configInitVals.PDFReader, "pdf-reader", "", "PDF reader: system, skim, preview or a command")
	f.StringVar(&configInitVals.UserAgent, "user-agent", "", "User-Agent for HTTP requests")
	f.BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configShowCmd.Flags().BoolVar(&configShowYAML, "yaml", false, "Print as YAML")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or inspect the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a new configuration file",
	Long: `Write a new configuration file at --config, $CITERIUS_CONFIG or
$XDG_CONFIG_HOME/citerius/config.json.

Example:
  citerius config init --references-dir ~/references \
    --author-name "Ada Lovelace" --author-email ada@example.org`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after environment overrides, as JSON or YAML.`,
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path of the configuration file",
	Args:  usageArgs(cobra.NoArgs),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(configFilePath())
	},
}

func configFilePath() string {
	if configPath != "" {
		return config.ExpandPath(configPath)
	}
	return config.DefaultPath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFilePath()
	if _, err := os.Stat(path); err == nil && !configForce {
		return usageError{fmt.Errorf("%s already exists (use --force to overwrite)", path)}
	}

	cfg := configInitVals
	if err := cfg.Validate(); err != nil {
		return usageError{err}
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(StatusResponse{Status: "created", Path: path})
	}
	outputHuman("Wrote %s\n", path)
	outputHuman("Run 'citerius init' to prepare %s\n", cfg.ReferencesDir)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if configShowYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return enc.Close()
	}
	return outputJSON(cfg)
}
