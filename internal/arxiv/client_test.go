package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title type="html">ArXiv Query: id_list=1706.03762</title>
  <id>http://arxiv.org/api/abc</id>
  <updated>2024-01-01T00:00:00-05:00</updated>
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <updated>2023-08-02T00:41:18Z</updated>
    <published>2017-06-12T17:57:34Z</published>
    <title>Attention Is All
      You Need</title>
    <summary>  The dominant sequence transduction models.  </summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
  </entry>
</feed>`

const errorFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title type="html">ArXiv Query: id_list=bogus</title>
  <id>http://arxiv.org/api/xyz</id>
  <updated>2024-01-01T00:00:00-05:00</updated>
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_bogus</id>
    <title>Error</title>
    <summary>incorrect id format for bogus</summary>
    <updated>2024-01-01T00:00:00-05:00</updated>
    <link href="http://arxiv.org/api/errors#incorrect_id_format_for_bogus" rel="alternate" type="text/html"/>
    <author><name>arXiv api core</name></author>
  </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title type="html">ArXiv Query: id_list=9999.99999</title>
  <id>http://arxiv.org/api/none</id>
  <updated>2024-01-01T00:00:00-05:00</updated>
</feed>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(
		WithBaseURL(srv.URL),
		WithAPIURL(srv.URL+"/api/query"),
		WithRateInterval(0),
	)
}

func TestLookup(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("id_list")
		w.Write([]byte(sampleFeed))
	})

	e, err := c.Lookup(context.Background(), "1706.03762")
	require.NoError(t, err)

	assert.Equal(t, "1706.03762", gotQuery)
	assert.Equal(t, "1706.03762", e.ID)
	assert.Equal(t, "v7", e.Version)
	assert.Equal(t, "Attention Is All You Need", e.Title)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, e.Authors)
	assert.Equal(t, "The dominant sequence transduction models.", e.Summary)
	assert.Equal(t, "http://arxiv.org/pdf/1706.03762v7", e.PDFURL)
	assert.Equal(t, "http://arxiv.org/abs/1706.03762v7", e.AbsURL)
	assert.Equal(t, "2017", e.Year())
}

const noPDFLinkFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title type="html">ArXiv Query: id_list=2504.18006</title>
  <id>http://arxiv.org/api/def</id>
  <updated>2025-05-01T00:00:00-05:00</updated>
  <entry>
    <id>http://arxiv.org/abs/2504.18006v2</id>
    <published>2025-04-25T00:00:00Z</published>
    <title>Some Paper</title>
    <author><name>Jane Roe</name></author>
    <link href="http://arxiv.org/abs/2504.18006v2" rel="alternate" type="text/html"/>
  </entry>
</feed>`

func TestLookup_PDFLinkFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(noPDFLinkFeed))
	})

	e, err := c.Lookup(context.Background(), "2504.18006")
	require.NoError(t, err)
	assert.Equal(t, "v2", e.Version)
	assert.Equal(t, c.baseURL+"/pdf/2504.18006v2", e.PDFURL)
}

func TestLookup_NotFound(t *testing.T) {
	for name, feed := range map[string]string{"error entry": errorFeed, "empty feed": emptyFeed} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(feed))
			})
			_, err := c.Lookup(context.Background(), "bogus")
			require.Error(t, err)
			assert.True(t, IsNotFound(err), "IsNotFound(%v)", err)
		})
	}
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "all:attention", q.Get("search_query"))
		assert.Equal(t, "relevance", q.Get("sortBy"))
		assert.Equal(t, "descending", q.Get("sortOrder"))
		assert.Equal(t, "5", q.Get("max_results"))
		w.Write([]byte(sampleFeed))
	})

	entries, err := c.Search(context.Background(), "attention", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1706.03762", entries[0].ID)
}

func TestFetchBibTeX(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bibtex/1706.03762", r.URL.Path)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Write([]byte("@misc{vaswani2017attention,\n  title={Attention}\n}\n"))
	})

	body, err := c.FetchBibTeX(context.Background(), "1706.03762")
	require.NoError(t, err)
	assert.Contains(t, body, "@misc{vaswani2017attention,")
}

func TestFetchBibTeX_404(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.FetchBibTeX(context.Background(), "0000.00000")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestUserAgentOption(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Header.Get("User-Agent")))
	})
	WithUserAgent("me@example.org")(c)

	var ua string
	require.NoError(t, c.Request("/ua").ToString(&ua).Fetch(context.Background()))
	assert.Equal(t, "me@example.org", ua)
}

func TestSplitVersion(t *testing.T) {
	tests := []struct{ in, id, version string }{
		{"2504.18006v2", "2504.18006", "v2"},
		{"2504.18006", "2504.18006", ""},
		{"hep-th/9901001v1", "hep-th/9901001", "v1"},
		{"v", "v", ""},
	}
	for _, tt := range tests {
		id, v := splitVersion(tt.in)
		assert.Equal(t, tt.id, id, tt.in)
		assert.Equal(t, tt.version, v, tt.in)
	}
}
