package arxiv

import (
	"errors"
	"fmt"
)

// Common errors returned by the arXiv client.
var (
	// ErrNotFound indicates arXiv knows no paper with the requested id.
	ErrNotFound = errors.New("not found on arXiv")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from arXiv")
)

// APIError is a non-2xx answer from arxiv.org.
type APIError struct {
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("arXiv request %s failed with status %d", e.URL, e.StatusCode)
}

// IsNotFound returns true if the error indicates a paper was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}
