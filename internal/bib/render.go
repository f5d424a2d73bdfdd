package bib

import (
	"fmt"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/matsen/citerius/internal/reference"
)

// Hints are partial metadata known before the user writes a citation,
// gathered from a local PDF or a landing page.
type Hints struct {
	Title   string
	Authors []reference.Author
	Year    string
	DOI     string
	Journal string
	URL     string
}

// Empty reports whether no hint is set.
func (h Hints) Empty() bool {
	return h.Title == "" && len(h.Authors) == 0 && h.Year == "" && h.DOI == "" && h.Journal == ""
}

// Render formats hints as a BibTeX entry keyed by key.
func Render(key string, h Hints) string {
	entryType := "misc"
	if h.Journal != "" {
		entryType = "article"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, key))
	if len(h.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(h.Authors)))
	}
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(h.Title)))
	if h.Journal != "" {
		b.WriteString(fmt.Sprintf("  journal = {%s},\n", escapeLatex(h.Journal)))
	}
	b.WriteString(fmt.Sprintf("  year = {%s},\n", h.Year))
	if h.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", h.DOI))
	}
	if h.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", h.URL))
	}
	b.WriteString("}\n")

	return b.String()
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First"
func formatAuthors(authors []reference.Author) string {
	var formatted []string
	for _, a := range authors {
		if a.First != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", a.Last, a.First))
		} else {
			formatted = append(formatted, a.Last)
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}

// Pretty re-renders a whole bibliography in a normalized layout.
func Pretty(text string) (string, error) {
	parsed, err := bibtex.Parse(strings.NewReader(text))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCitationParse, err)
	}
	return parsed.PrettyString(), nil
}
