package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"

	"github.com/matsen/citerius/internal/reference"
)

// Output widths.
const (
	ListTitleMaxLen   = 60
	SearchTitleMaxLen = 70
	AuthorsMaxLen     = 40
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError prints the error in the selected format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if jsonOutput {
		outputJSON(ErrorResponse{Error: msg})
	} else {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// truncate shortens s to width terminal cells, adding "..." if truncated.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// printPapers prints one line per paper: label, year and title.
func printPapers(papers []reference.Paper, titleWidth int) {
	labelWidth := 0
	for _, p := range papers {
		if w := runewidth.StringWidth(p.Label); w > labelWidth {
			labelWidth = w
		}
	}
	for _, p := range papers {
		outputHuman("  %s  %-4s  %s\n", runewidth.FillRight(p.Label, labelWidth), p.Year, truncate(p.Title, titleWidth))
		outputHuman("  %s        %s\n", runewidth.FillRight("", labelWidth), truncate(p.Authors, AuthorsMaxLen))
	}
}

// papersOrEmpty keeps JSON output an array when there are no results.
func papersOrEmpty(papers []reference.Paper) []reference.Paper {
	if papers == nil {
		return []reference.Paper{}
	}
	return papers
}
