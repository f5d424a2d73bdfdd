// Package export writes the index and bibliography in other formats.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matsen/citerius/internal/bib"
	"github.com/matsen/citerius/internal/reference"
)

// Supported formats.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatBibTeX = "bibtex"
)

// Formats lists the accepted format names.
var Formats = []string{FormatJSON, FormatYAML, FormatBibTeX}

// ErrUnknownFormat is returned for a format not in Formats.
var ErrUnknownFormat = errors.New("unknown export format")

// Options select what is exported.
type Options struct {
	Format string

	// Labels restricts the export to these papers; empty means all.
	Labels []string

	// Raw writes BibTeX entries as stored instead of re-rendering them.
	Raw bool
}

// Result reports labels that were asked for but not found.
type Result struct {
	Exported int
	Missing  []string
}

// Write exports papers (the index rows) and bibliography (the contents of
// bibliography.bib) to w.
func Write(w io.Writer, papers []reference.Paper, bibliography string, opts Options) (*Result, error) {
	selected, missing := selectPapers(papers, opts.Labels)
	res := &Result{Exported: len(selected), Missing: missing}

	switch strings.ToLower(opts.Format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(selected); err != nil {
			return nil, fmt.Errorf("encoding JSON: %w", err)
		}
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(selected); err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case FormatBibTeX, "bib":
		text, err := bibtexOf(selected, bibliography, opts.Raw)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, text); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFormat, opts.Format, strings.Join(Formats, ", "))
	}
	return res, nil
}

// bibtexOf returns the bibliography entries of papers, in index order.
func bibtexOf(papers []reference.Paper, bibliography string, raw bool) (string, error) {
	labels := make([]string, len(papers))
	for i, p := range papers {
		labels[i] = p.Label
	}
	text, _ := bib.Select(bibliography, labels)
	if raw || text == "" {
		return text, nil
	}
	return bib.Pretty(text)
}

func selectPapers(papers []reference.Paper, labels []string) ([]reference.Paper, []string) {
	if len(labels) == 0 {
		if papers == nil {
			return []reference.Paper{}, nil
		}
		return papers, nil
	}
	byLabel := make(map[string]reference.Paper, len(papers))
	for _, p := range papers {
		byLabel[p.Label] = p
	}
	selected := []reference.Paper{}
	var missing []string
	for _, label := range labels {
		p, ok := byLabel[label]
		if !ok {
			missing = append(missing, label)
			continue
		}
		selected = append(selected, p)
	}
	return selected, missing
}
