package bib

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Index lists the citation keys present in a bibliography file.
type Index struct {
	Keys map[string]bool
}

// Has reports whether key is already used.
func (idx *Index) Has(key string) bool {
	return idx.Keys[key]
}

// ReadIndex builds an index from an existing .bib file.
// Returns an empty index if the file doesn't exist.
func ReadIndex(path string) (*Index, error) {
	idx := &Index{Keys: make(map[string]bool)}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if m := headerPattern.FindStringSubmatch(scanner.Text()); m != nil {
			idx.Keys[m[2]] = true
		}
	}

	return idx, scanner.Err()
}

// Append adds an entry to the end of a bibliography file, separated from
// the previous entry by one blank line.
func Append(path, entry string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading bibliography: %w", err)
	}

	var b strings.Builder
	if len(existing) > 0 {
		if existing[len(existing)-1] != '\n' {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimRight(entry, "\n"))
	b.WriteString("\n")

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("opening bibliography: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(b.String()); err != nil {
		return fmt.Errorf("writing bibliography: %w", err)
	}
	return nil
}

// Remove deletes the entry keyed by label from a bibliography file. It
// reports whether an entry was found. The blank line that separated the
// entry from its predecessor is removed with it.
func Remove(path, label string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading bibliography: %w", err)
	}

	lines := strings.SplitAfter(string(data), "\n")
	start, end, ok := findBlock(lines, label)
	if !ok {
		return false, nil
	}

	switch {
	case start > 0 && isBlank(lines[start-1]):
		start--
	case start == 0 && end+1 < len(lines) && isBlank(lines[end+1]):
		end++
	}

	kept := append(lines[:start:start], lines[end+1:]...)
	if err := writeFileAtomic(path, []byte(strings.Join(kept, ""))); err != nil {
		return false, err
	}
	return true, nil
}

// findBlock returns the first and last line of the entry keyed by label.
// The end is found by brace matching; if the braces never balance, the
// next line consisting only of "}" closes the entry.
func findBlock(lines []string, label string) (int, int, bool) {
	start := -1
	open := regexp.MustCompile(`^\s*@[A-Za-z]+\s*\{\s*` + regexp.QuoteMeta(label) + `\s*,`)
	for i, line := range lines {
		if open.MatchString(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, 0, false
	}

	depth := 0
	for i := start; i < len(lines); i++ {
		depth += braceDelta(lines[i])
		if depth <= 0 {
			return start, i, true
		}
	}

	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "}" {
			return start, i, true
		}
	}
	return start, len(lines) - 1, true
}

// braceDelta counts unescaped opening minus closing braces on a line.
func braceDelta(line string) int {
	delta := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// writeFileAtomic replaces path through a temporary file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if info, err := os.Stat(path); err == nil {
		os.Chmod(tmpName, info.Mode().Perm())
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Select returns the entries of a bibliography keyed by labels, in the
// order given, separated by blank lines. Labels without an entry are
// returned as missing.
func Select(text string, labels []string) (string, []string) {
	lines := strings.SplitAfter(text, "\n")
	var blocks []string
	var missing []string
	for _, label := range labels {
		start, end, ok := findBlock(lines, label)
		if !ok {
			missing = append(missing, label)
			continue
		}
		block := strings.Join(lines[start:end+1], "")
		blocks = append(blocks, strings.TrimRight(block, "\n")+"\n")
	}
	return strings.Join(blocks, "\n"), missing
}
