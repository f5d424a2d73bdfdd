package pdf

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/matsen/citerius/internal/bib"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// maxScanPages bounds how far into a PDF the DOI search goes.
const maxScanPages = 3

// Hints reads a title, DOI and year out of a local PDF. It implements the
// hint source used to prefill manual citations.
type Hints struct{}

// Hints returns whatever metadata could be found; missing pieces are left empty.
func (Hints) Hints(_ context.Context, path string) (bib.Hints, error) {
	return ExtractMetadata(path)
}

// ExtractMetadata opens a PDF and reads its document info and first pages.
func ExtractMetadata(path string) (h bib.Hints, err error) {
	// The PDF reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			h, err = bib.Hints{}, fmt.Errorf("reading %s: malformed PDF: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return bib.Hints{}, err
	}
	defer f.Close()

	info := r.Trailer().Key("Info")
	h.Title = strings.TrimSpace(info.Key("Title").Text())
	if m := yearPattern.FindString(info.Key("CreationDate").Text()); m != "" {
		h.Year = m
	}

	pages := r.NumPage()
	if pages > maxScanPages {
		pages = maxScanPages
	}
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i == 1 && h.Title == "" {
			h.Title = findTitle(text)
		}
		if h.DOI == "" {
			h.DOI = findDOI(text)
		}
	}
	return h, nil
}

// findTitle uses the first substantial line of the first page.
func findTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) {
			return line
		}
	}
	return ""
}

// findDOI finds a DOI in text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}

// isHeaderLine checks if a line is likely a running header or footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"),
		strings.Contains(lower, "copyright"),
		strings.Contains(lower, "arxiv:"),
		strings.Contains(lower, "volume") && strings.Contains(lower, "issue"),
		strings.Contains(lower, "article") && strings.Contains(lower, "published"):
		return true
	}
	return false
}
