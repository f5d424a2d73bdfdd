package arxiv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/atom"
)

// Entry is one paper from the Atom query API.
type Entry struct {
	ID        string    `json:"id"` // without the "vN" suffix
	Version   string    `json:"version,omitempty"`
	Title     string    `json:"title"`
	Authors   []string  `json:"authors"`
	Summary   string    `json:"summary,omitempty"`
	Published time.Time `json:"published"`
	PDFURL    string    `json:"pdf_url"`
	AbsURL    string    `json:"abs_url"`
}

// Year returns the publication year, or "" when unknown.
func (e Entry) Year() string {
	if e.Published.IsZero() {
		return ""
	}
	return e.Published.Format("2006")
}

// Lookup returns the entry for a single arXiv id.
func (c *Client) Lookup(ctx context.Context, id string) (*Entry, error) {
	var body string
	err := c.request(c.apiURL).
		Param("id_list", id).
		ParamInt("max_results", 1).
		ToString(&body).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", id, err)
	}

	entries, err := c.parseFeed(body)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &entries[0], nil
}

// Search queries the API across all fields, most relevant first.
func (c *Client) Search(ctx context.Context, query string, max int) ([]Entry, error) {
	if max <= 0 {
		max = DefaultSearchLimit
	}
	var body string
	err := c.request(c.apiURL).
		Param("search_query", "all:"+query).
		Param("sortBy", "relevance").
		Param("sortOrder", "descending").
		ParamInt("start", 0).
		ParamInt("max_results", max).
		ToString(&body).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching arXiv: %w", err)
	}
	return c.parseFeed(body)
}

// parseFeed converts an Atom response into entries. The API reports bad
// queries as a single entry titled "Error"; those and empty placeholder
// entries are dropped.
//
// The Atom parser is used directly: the generic gofeed.Item keeps only
// alternate and self links, and arXiv marks the PDF link rel="related".
func (c *Client) parseFeed(body string) ([]Entry, error) {
	fp := &atom.Parser{}
	feed, err := fp.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var entries []Entry
	for _, item := range feed.Entries {
		if item.Title == "" || item.Title == "Error" || strings.Contains(item.ID, "/api/errors") {
			continue
		}
		entries = append(entries, c.toEntry(item))
	}
	return entries, nil
}

func (c *Client) toEntry(item *atom.Entry) Entry {
	id, version := splitVersion(idFromURL(strings.TrimSpace(item.ID)))

	e := Entry{
		ID:      id,
		Version: version,
		Title:   strings.Join(strings.Fields(item.Title), " "),
		Summary: strings.TrimSpace(item.Summary),
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			e.Authors = append(e.Authors, strings.TrimSpace(a.Name))
		}
	}
	if item.PublishedParsed != nil {
		e.Published = *item.PublishedParsed
	}
	for _, link := range item.Links {
		if link == nil {
			continue
		}
		switch {
		case link.Title == "pdf" || link.Type == "application/pdf":
			if e.PDFURL == "" {
				e.PDFURL = link.Href
			}
		case link.Rel == "" || link.Rel == "alternate":
			if e.AbsURL == "" {
				e.AbsURL = link.Href
			}
		}
	}
	if e.PDFURL == "" && id != "" {
		e.PDFURL = c.baseURL + "/pdf/" + id + version
	}
	return e
}

// idFromURL turns "http://arxiv.org/abs/2504.18006v1" into "2504.18006v1".
func idFromURL(u string) string {
	if i := strings.Index(u, "/abs/"); i >= 0 {
		return u[i+len("/abs/"):]
	}
	return u
}

// splitVersion splits "2504.18006v2" into "2504.18006" and "v2".
func splitVersion(id string) (string, string) {
	i := strings.LastIndex(id, "v")
	if i <= 0 || i == len(id)-1 {
		return id, ""
	}
	for _, r := range id[i+1:] {
		if r < '0' || r > '9' {
			return id, ""
		}
	}
	return id[:i], id[i:]
}
