// Package ident decides what kind of target a user-supplied string names.
package ident

import (
	"os"
	"regexp"
	"strings"

	"github.com/matsen/citerius/internal/reference"
)

var (
	// Modern arXiv identifiers: 2504.18006, 1706.03762v5.
	arxivPattern = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)
	// Legacy numeric identifiers without an archive prefix: 0704001, 0704001v2.
	legacyArxivPattern = regexp.MustCompile(`^\d{7}(v\d+)?$`)
)

// Classify returns the kind of target s denotes.
// An existing regular file always wins over an identifier match.
func Classify(s string) reference.Kind {
	s = strings.TrimSpace(s)
	if isFile(s) {
		return reference.KindLocalFile
	}
	if IsArxivID(s) {
		return reference.KindArxiv
	}
	return reference.KindLink
}

// IsArxivID reports whether s looks like an arXiv identifier.
func IsArxivID(s string) bool {
	return arxivPattern.MatchString(s) || legacyArxivPattern.MatchString(s)
}

// StripVersion drops a trailing version suffix ("v2") from an arXiv id.
func StripVersion(id string) string {
	if i := strings.LastIndex(id, "v"); i > 0 && isDigits(id[i+1:]) {
		return id[:i]
	}
	return id
}

func isFile(s string) bool {
	if s == "" {
		return false
	}
	info, err := os.Stat(s)
	return err == nil && info.Mode().IsRegular()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
