package bib

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrKeyNotFound is returned when a citation has no key to rewrite.
var ErrKeyNotFound = errors.New("citation key not found")

// headerPattern matches the opening of an entry: @type{key,
var headerPattern = regexp.MustCompile(`(?m)^\s*@([A-Za-z]+)\s*\{\s*([^,\s]+)\s*,`)

// KeyOf returns the entry type and key of the first entry in citation.
func KeyOf(citation string) (typ, key string, err error) {
	m := headerPattern.FindStringSubmatch(citation)
	if m == nil {
		return "", "", ErrKeyNotFound
	}
	return m[1], m[2], nil
}

// Relabel replaces exactly one occurrence of oldKey with label.
// The key in the first entry header is preferred; otherwise the first
// occurrence anywhere in the text is replaced.
func Relabel(citation, oldKey, label string) (string, error) {
	if oldKey == "" {
		return "", fmt.Errorf("%w: empty key", ErrKeyNotFound)
	}

	if loc := headerPattern.FindStringSubmatchIndex(citation); loc != nil {
		keyStart, keyEnd := loc[4], loc[5]
		if citation[keyStart:keyEnd] == oldKey {
			return citation[:keyStart] + label + citation[keyEnd:], nil
		}
	}

	i := strings.Index(citation, oldKey)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, oldKey)
	}
	return citation[:i] + label + citation[i+len(oldKey):], nil
}
