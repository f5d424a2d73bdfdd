// Package arxiv talks to arxiv.org: the Atom query API, the BibTeX
// citation endpoint and the PDF and e-print downloads.
package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"golang.org/x/time/rate"
)

// Endpoints. Variables so tests can point them at an httptest server.
var (
	// APIURL is the Atom query API.
	APIURL = "https://export.arxiv.org/api/query"

	// BaseURL serves /abs, /pdf, /e-print and /bibtex.
	BaseURL = "https://arxiv.org"
)

const (
	// RateInterval is the minimum spacing between requests asked for by arXiv.
	RateInterval = 3 * time.Second

	// DefaultUserAgent identifies the client to arXiv.
	DefaultUserAgent = "citerius (reference manager)"

	// DefaultSearchLimit is the number of search results returned by default.
	DefaultSearchLimit = 10
)

// Client is a rate-limited client for arxiv.org.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiURL     string
	baseURL    string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithAPIURL sets a custom query API URL (for testing).
func WithAPIURL(url string) ClientOption {
	return func(c *Client) {
		c.apiURL = url
	}
}

// WithUserAgent sets the User-Agent header. Empty keeps the default.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateInterval changes the spacing between requests. Zero disables limiting.
func WithRateInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewClient creates a new arXiv client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		limiter:    rate.NewLimiter(rate.Every(RateInterval), 1),
		apiURL:     APIURL,
		baseURL:    BaseURL,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// transport waits on the limiter before every round trip.
func (c *Client) transport() http.RoundTripper {
	rt := c.httpClient.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	return requests.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		return rt.RoundTrip(req)
	})
}

// request builds a rate-limited request for url whose non-2xx responses
// come back as *APIError.
func (c *Client) request(url string) *requests.Builder {
	return requests.
		URL(url).
		Client(&http.Client{Timeout: c.httpClient.Timeout}).
		Transport(c.transport()).
		UserAgent(c.userAgent).
		AddValidator(checkStatus)
}

// Request builds a request for a path under the base URL, e.g. "/bibtex/2504.18006".
func (c *Client) Request(path string) *requests.Builder {
	return c.request(c.baseURL + path)
}

// PDFRequest builds the request for an arXiv PDF.
func (c *Client) PDFRequest(id string) *requests.Builder {
	return c.Request("/pdf/" + id)
}

// SourceRequest builds the request for an arXiv e-print (source) archive.
func (c *Client) SourceRequest(id string) *requests.Builder {
	return c.Request("/e-print/" + id)
}

// FetchBibTeX returns the BibTeX citation arXiv serves for id.
func (c *Client) FetchBibTeX(ctx context.Context, id string) (string, error) {
	var body string
	if err := c.Request("/bibtex/" + id).ToString(&body).Fetch(ctx); err != nil {
		return "", fmt.Errorf("fetching citation for %s: %w", id, err)
	}
	return body, nil
}

func checkStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	return &APIError{StatusCode: res.StatusCode, URL: res.Request.URL.String()}
}
