package reference

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Author represents a paper author.
type Author struct {
	First string `json:"first"` // First/given name(s)
	Last  string `json:"last"`  // Last/family name
}

// ParseAuthor reads a BibTeX name written either "Last, First" or "First Last".
func ParseAuthor(name string) Author {
	name = strings.TrimSpace(name)
	if last, first, ok := strings.Cut(name, ","); ok {
		return Author{First: clean(first), Last: clean(last)}
	}
	parts := bracedFields(name)
	switch len(parts) {
	case 0:
		return Author{}
	case 1:
		return Author{Last: parts[0]}
	}
	return Author{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  parts[len(parts)-1],
	}
}

// ParseAuthorList splits a BibTeX author field on " and " (or ";").
func ParseAuthorList(field string) []Author {
	field = strings.ReplaceAll(field, ";", " and ")
	var authors []Author
	for _, part := range splitAnd(field) {
		if a := ParseAuthor(part); a.Last != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// Short formats an author as "Last F".
func (a Author) Short() string {
	last := stripNonLetters(a.Last)
	r, _ := utf8.DecodeRuneInString(a.First)
	if a.First == "" || !unicode.IsLetter(r) {
		return last
	}
	return last + " " + string(r)
}

// FormatAuthors joins authors for the index's Author column.
func FormatAuthors(authors []Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.Short())
	}
	return strings.Join(names, " and ")
}

// splitAnd splits on the word "and" surrounded by whitespace, in any case.
func splitAnd(s string) []string {
	words := strings.Fields(s)
	var parts []string
	var cur []string
	for _, w := range words {
		if strings.EqualFold(w, "and") {
			parts = append(parts, strings.Join(cur, " "))
			cur = nil
			continue
		}
		cur = append(cur, w)
	}
	if len(cur) > 0 {
		parts = append(parts, strings.Join(cur, " "))
	}
	return parts
}

// bracedFields splits on whitespace outside of braces, so "{de Broglie}" stays one word.
func bracedFields(s string) []string {
	var fields []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if w := clean(cur.String()); w != "" {
			fields = append(fields, w)
		}
		cur.Reset()
	}
	for _, r := range s {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case unicode.IsSpace(r) && depth == 0:
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return fields
}

// clean drops braces and collapses whitespace.
func clean(s string) string {
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripNonLetters(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}
