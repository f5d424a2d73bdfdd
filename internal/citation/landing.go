package citation

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/carlmjohnson/requests"

	"github.com/matsen/citerius/internal/bib"
	"github.com/matsen/citerius/internal/reference"
)

var yearPattern = regexp.MustCompile(`\b(1[89]|20)\d{2}\b`)

// LandingPage reads Highwire-style citation_* meta tags from the HTML page
// behind a link. Most publisher pages carry them.
type LandingPage struct {
	Client    *http.Client
	UserAgent string
}

// Hints fetches url and extracts whatever citation metadata the page declares.
func (l *LandingPage) Hints(ctx context.Context, url string) (bib.Hints, error) {
	if strings.HasSuffix(strings.ToLower(url), ".pdf") {
		return bib.Hints{}, fmt.Errorf("%s points at a PDF", url)
	}

	var html string
	b := requests.URL(url).
		CheckStatus(http.StatusOK).
		CheckContentType("text/html", "application/xhtml+xml").
		ToString(&html)
	if l.Client != nil {
		b = b.Client(l.Client)
	}
	if l.UserAgent != "" {
		b = b.UserAgent(l.UserAgent)
	}
	if err := b.Fetch(ctx); err != nil {
		return bib.Hints{}, fmt.Errorf("fetching landing page: %w", err)
	}

	return ParseLandingPage(html, url)
}

// ParseLandingPage extracts hints from an HTML document.
func ParseLandingPage(html, url string) (bib.Hints, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return bib.Hints{}, fmt.Errorf("parsing landing page: %w", err)
	}

	meta := func(names ...string) string {
		for _, name := range names {
			if v := strings.TrimSpace(doc.Find(`meta[name="` + name + `"]`).First().AttrOr("content", "")); v != "" {
				return v
			}
		}
		return ""
	}

	h := bib.Hints{
		Title:   meta("citation_title", "dc.title", "DC.title"),
		DOI:     meta("citation_doi", "dc.identifier", "DC.identifier"),
		Journal: meta("citation_journal_title", "citation_conference_title"),
		URL:     url,
	}
	h.DOI = strings.TrimPrefix(strings.TrimPrefix(h.DOI, "doi:"), "https://doi.org/")
	if m := yearPattern.FindString(meta("citation_publication_date", "citation_date", "citation_online_date", "dc.date")); m != "" {
		h.Year = m
	}
	doc.Find(`meta[name="citation_author"]`).Each(func(_ int, s *goquery.Selection) {
		if name := strings.TrimSpace(s.AttrOr("content", "")); name != "" {
			h.Authors = append(h.Authors, reference.ParseAuthor(name))
		}
	})
	return h, nil
}
