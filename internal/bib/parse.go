// Package bib reads and writes BibTeX: citation metadata, default labels,
// key rewriting and the bibliography file.
package bib

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/matsen/citerius/internal/reference"
)

// ErrCitationParse is returned when a citation cannot be parsed or lacks
// a required field.
var ErrCitationParse = errors.New("cannot parse citation")

// Entry is the metadata extracted from a single BibTeX entry.
type Entry struct {
	Type    string
	Key     string
	Title   string
	Year    string
	Authors []reference.Author
	Fields  map[string]string // Lowercased field name to cleaned value
}

// placeholderKey stands in for the real citation key while parsing, since
// users type keys (with ':' or '/') that the grammar may reject.
const placeholderKey = "citeriusentry"

var (
	bareYear      = regexp.MustCompile(`(?i)(\byear\s*=\s*)(\d{4})\b`)
	trailingComma = regexp.MustCompile(`,\s*\}\s*$`)
)

// Parse extracts title, year and authors from the first entry of a citation.
func Parse(citation string) (*Entry, error) {
	typ, key, err := KeyOf(citation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCitationParse, err)
	}

	normalized := headerPattern.ReplaceAllString(citation, "@"+typ+"{"+placeholderKey+",")
	normalized = bareYear.ReplaceAllString(normalized, "${1}{${2}}")
	normalized = trailingComma.ReplaceAllString(strings.TrimSpace(normalized), "\n}")

	parsed, err := bibtex.Parse(strings.NewReader(normalized))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCitationParse, err)
	}
	if len(parsed.Entries) == 0 {
		return nil, fmt.Errorf("%w: no entry found", ErrCitationParse)
	}

	raw := parsed.Entries[0]
	entry := &Entry{
		Type:   strings.ToLower(typ),
		Key:    key,
		Fields: make(map[string]string, len(raw.Fields)),
	}
	for name, value := range raw.Fields {
		if value == nil {
			continue
		}
		entry.Fields[strings.ToLower(name)] = cleanValue(value.String())
	}

	entry.Title = entry.Fields["title"]
	entry.Year = digits(entry.Fields["year"])
	entry.Authors = reference.ParseAuthorList(entry.Fields["author"])

	var missing []string
	if entry.Title == "" {
		missing = append(missing, "title")
	}
	if entry.Year == "" {
		missing = append(missing, "year")
	}
	if len(entry.Authors) == 0 {
		missing = append(missing, "author")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrCitationParse, strings.Join(missing, ", "))
	}

	return entry, nil
}

// Paper builds the index row for this entry under the given label.
func (e *Entry) Paper(label string) reference.Paper {
	return reference.Paper{
		Title:        e.Title,
		Authors:      reference.FormatAuthors(e.Authors),
		ArxivID:      reference.Missing,
		Year:         e.Year,
		Label:        label,
		DownloadLink: reference.Missing,
	}
}

// cleanValue drops grouping braces and collapses whitespace.
func cleanValue(s string) string {
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
