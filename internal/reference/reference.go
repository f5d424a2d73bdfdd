// Package reference defines the core domain types for the paper index.
package reference

import "strings"

// Missing is the placeholder stored in the index for an absent identifier.
const Missing = "nan"

// Paper is one row of papers.csv.
type Paper struct {
	Title        string `json:"title" yaml:"title"`
	Authors      string `json:"authors" yaml:"authors"`     // "Last F and Last F"
	ArxivID      string `json:"arxiv_id" yaml:"arxiv_id"`   // arXiv number or "nan"
	Year         string `json:"year" yaml:"year"`
	Label        string `json:"label" yaml:"label"`         // Primary key, also the BibTeX key
	DownloadPDF  bool   `json:"download_pdf" yaml:"download_pdf"`
	DownloadLink string `json:"download_link" yaml:"download_link"` // URL or "nan"
	DownloadSrc  bool   `json:"download_src" yaml:"download_src"`
}

// HasArxivID reports whether the paper was added from arXiv.
func (p Paper) HasArxivID() bool {
	return p.ArxivID != "" && p.ArxivID != Missing
}

// HasLink reports whether the paper was added from a download link.
func (p Paper) HasLink() bool {
	return p.DownloadLink != "" && p.DownloadLink != Missing
}

// Kind returns how the paper was originally added.
func (p Paper) Kind() Kind {
	switch {
	case p.HasArxivID():
		return KindArxiv
	case p.HasLink():
		return KindLink
	default:
		return KindLocalFile
	}
}

// SearchLine renders the paper as the comma-joined line shown in fuzzy finders.
// Download tracking columns are left out.
func (p Paper) SearchLine() string {
	return strings.Join([]string{p.Title, p.Authors, p.ArxivID, p.Year, p.Label}, ", ")
}

// OrMissing returns s, or Missing when s is empty.
func OrMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return Missing
	}
	return s
}

// YesNo renders a download flag the way the index stores it.
func YesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

// ParseYesNo reads a download flag. Anything other than y/yes/true is false.
func ParseYesNo(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}
