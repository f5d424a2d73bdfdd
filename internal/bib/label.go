package bib

import (
	"strings"
	"unicode"
)

// DefaultLabel derives a label from the first author's surname, the first
// word of the title and the year. Non-letters are dropped from the name and
// the word, so "O'Neil", "{Deep} learning", 2021 gives "ONeilDeep2021".
func (e *Entry) DefaultLabel() string {
	var surname string
	if len(e.Authors) > 0 {
		surname = lettersOnly(e.Authors[0].Last)
	}
	return surname + firstWord(e.Title) + e.Year
}

// firstWord returns the first title word that still has letters once
// everything else is stripped.
func firstWord(title string) string {
	for _, w := range strings.Fields(title) {
		if s := lettersOnly(w); s != "" {
			return s
		}
	}
	return ""
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}

// ValidLabel reports whether label can be used as a directory name and a
// BibTeX key.
func ValidLabel(label string) bool {
	if label == "" || label == "." || label == ".." {
		return false
	}
	for _, r := range label {
		if unicode.IsSpace(r) || strings.ContainsRune(`/\,{}()"#%'=~`, r) {
			return false
		}
	}
	return true
}
