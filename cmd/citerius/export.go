package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/citerius/internal/export"
)

var (
	exportFormat string
	exportOutput string
	exportRaw    bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatJSON, "Output format: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportRaw, "raw", false, "With --format bibtex, write entries as stored")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [label...]",
	Short: "Export papers as JSON, YAML or BibTeX",
	Long: `Export the index (json, yaml) or the bibliography entries (bibtex) of
every paper, or only of the labels given.

Examples:
  citerius export --format yaml
  citerius export --format bibtex VaswaniAttention2017 -o refs.bib`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	papers, err := s.Papers()
	if err != nil {
		return err
	}
	bibliography, err := os.ReadFile(s.Config.BibliographyPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading bibliography: %w", err)
	}

	var w io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		defer f.Close()
		w = f
	}

	res, err := export.Write(w, papers, string(bibliography), export.Options{
		Format: exportFormat,
		Labels: args,
		Raw:    exportRaw,
	})
	if errors.Is(err, export.ErrUnknownFormat) {
		return usageError{err}
	}
	if err != nil {
		return err
	}
	for _, label := range res.Missing {
		s.Logger.Warn("no such paper", "label", label)
	}
	if exportOutput != "" {
		outputHuman("Exported %d papers to %s\n", res.Exported, exportOutput)
	}
	return nil
}
