// Package storage handles the papers.csv index and its SQLite search cache.
package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/citerius/internal/reference"
)

// Column names of papers.csv, in the order rows are written.
const (
	ColTitle        = "Title"
	ColAuthor       = "Author"
	ColArxiv        = "ArXiv Number"
	ColYear         = "Year"
	ColLabel        = "Label"
	ColDownloadPDF  = "Download_pdf"
	ColDownloadLink = "Download_link"
	ColDownloadSrc  = "Download_src"
)

// Header is the first row of papers.csv.
var Header = []string{ColTitle, ColAuthor, ColArxiv, ColYear, ColLabel, ColDownloadPDF, ColDownloadLink, ColDownloadSrc}

// ErrLabelNotFound indicates no row carries the requested label.
var ErrLabelNotFound = errors.New("label not found")

// ErrMalformedIndex indicates papers.csv could not be parsed.
var ErrMalformedIndex = errors.New("malformed papers.csv")

// ReadAll reads every paper from papers.csv.
// A missing file is an empty index.
func ReadAll(path string) ([]reference.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening papers file: %w", err)
	}

	return Parse(data)
}

// Parse reads papers from the contents of a papers.csv file.
func Parse(data []byte) ([]reference.Paper, error) {
	var papers []reference.Paper
	err := scanRows(data, func(p reference.Paper, _, _ int64) {
		papers = append(papers, p)
	})
	if err != nil {
		return nil, err
	}
	return papers, nil
}

// Append adds a paper to the end of papers.csv, writing the header first
// when the file is new or empty.
func Append(path string, p reference.Paper) error {
	info, err := os.Stat(path)
	needHeader := err != nil || info.Size() == 0
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("checking papers file: %w", err)
	}

	var prefix string
	if !needHeader {
		last, err := lastByte(path)
		if err != nil {
			return err
		}
		if last != '\n' {
			prefix = "\n"
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening papers file for append: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	b.WriteString(prefix)
	if needHeader {
		b.WriteString(formatRow(Header))
	}
	b.WriteString(formatRow(toRow(p)))

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("writing paper %s: %w", p.Label, err)
	}
	return nil
}

// RemoveByLabel deletes the row carrying label. Every other row is written
// back byte for byte, so rows this tool did not write keep their format.
func RemoveByLabel(path, label string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrLabelNotFound, label)
		}
		return fmt.Errorf("reading papers file: %w", err)
	}

	var out bytes.Buffer
	var prev int64
	found := false
	err = scanRows(data, func(p reference.Paper, start, end int64) {
		if found || p.Label != label {
			return
		}
		out.Write(data[prev:start])
		prev = end
		found = true
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrLabelNotFound, label)
	}
	out.Write(data[prev:])

	return writeFileAtomic(path, out.Bytes())
}

// WriteHeader creates papers.csv with only the header row.
func WriteHeader(path string) error {
	return os.WriteFile(path, []byte(formatRow(Header)), 0644)
}

// FindByLabel searches for a paper by label.
func FindByLabel(papers []reference.Paper, label string) (int, bool) {
	for i, p := range papers {
		if p.Label == label {
			return i, true
		}
	}
	return -1, false
}

// scanRows parses data and calls fn for every paper row with the byte span
// [start, end) the row occupies, trailing newline included.
func scanRows(data []byte, fn func(p reference.Paper, start, end int64)) error {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	cols := positional()
	first := true
	var start int64
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedIndex, err)
		}
		end := r.InputOffset()

		if first {
			first = false
			if isHeader(record) {
				cols = columnsFrom(record)
				start = end
				continue
			}
		}

		fn(fromRow(record, cols), start, end)
		start = end
	}
}

// columns maps a column name to its position in a row.
type columns map[string]int

func positional() columns {
	cols := make(columns, len(Header))
	for i, name := range Header {
		cols[name] = i
	}
	return cols
}

// isHeader reports whether record names the label column and at least two
// other known columns.
func isHeader(record []string) bool {
	cols := columnsFrom(record)
	_, hasLabel := cols[ColLabel]
	return hasLabel && len(cols) >= 3
}

// columnsFrom reads column positions from a header row, so files written
// with a different column order still load.
func columnsFrom(header []string) columns {
	cols := make(columns, len(header))
	for i, field := range header {
		field = strings.TrimSpace(field)
		for _, name := range Header {
			if strings.EqualFold(field, name) {
				cols[name] = i
			}
		}
	}
	return cols
}

func fromRow(record []string, cols columns) reference.Paper {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	return reference.Paper{
		Title:        get(ColTitle),
		Authors:      get(ColAuthor),
		ArxivID:      reference.OrMissing(get(ColArxiv)),
		Year:         get(ColYear),
		Label:        get(ColLabel),
		DownloadPDF:  reference.ParseYesNo(get(ColDownloadPDF)),
		DownloadLink: reference.OrMissing(get(ColDownloadLink)),
		DownloadSrc:  reference.ParseYesNo(get(ColDownloadSrc)),
	}
}

func toRow(p reference.Paper) []string {
	return []string{
		p.Title,
		p.Authors,
		reference.OrMissing(p.ArxivID),
		p.Year,
		p.Label,
		reference.YesNo(p.DownloadPDF),
		reference.OrMissing(p.DownloadLink),
		reference.YesNo(p.DownloadSrc),
	}
}

// formatRow quotes every field, doubling embedded quotes.
func formatRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",") + "\n"
}

func lastByte(path string) (byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening papers file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, 1)
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if _, err := f.ReadAt(buf, info.Size()-1); err != nil {
		return 0, fmt.Errorf("reading papers file: %w", err)
	}
	return buf[0], nil
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
