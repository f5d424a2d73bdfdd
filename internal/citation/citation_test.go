package citation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/citerius/internal/arxiv"
	"github.com/matsen/citerius/internal/bib"
	"github.com/matsen/citerius/internal/editor"
	"github.com/matsen/citerius/internal/reference"
)

// fakeEditor records what it was opened with and returns a canned answer.
type fakeEditor struct {
	opened string
	append string
	err    error
}

func (e *fakeEditor) Edit(_ context.Context, initial string) (string, error) {
	e.opened = initial
	if e.err != nil {
		return "", e.err
	}
	return initial + e.append, nil
}

type fakeHints struct {
	hints bib.Hints
	err   error
}

func (f fakeHints) Hints(context.Context, string) (bib.Hints, error) {
	return f.hints, f.err
}

func arxivService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Service{
		Arxiv: arxiv.NewClient(arxiv.WithBaseURL(srv.URL), arxiv.WithRateInterval(0)),
	}
}

func TestFromArxiv(t *testing.T) {
	s := arxivService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bibtex/2504.18006", r.URL.Path)
		w.Write([]byte("\n@misc{doe2025,\n  title={T},\n}\n\n"))
	})

	got, err := s.Citation(context.Background(), "2504.18006", reference.KindArxiv)
	require.NoError(t, err)
	assert.Equal(t, "@misc{doe2025,\n  title={T},\n}\n", got)
}

func TestFromArxiv_NotFound(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"404": func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		},
		"no entry": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("no such paper"))
		},
	}
	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			s := arxivService(t, h)
			_, err := s.FromArxiv(context.Background(), "0000.00000")
			assert.ErrorIs(t, err, ErrCitationNotFound)
		})
	}
}

func TestFromArxiv_ServerError(t *testing.T) {
	s := arxivService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := s.FromArxiv(context.Background(), "2504.18006")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCitationNotFound))
}

func TestManual_StripsComments(t *testing.T) {
	ed := &fakeEditor{append: "\n@misc{key,\n\n  title = {T},\n}\n% trailing note\n"}
	s := &Service{Editor: ed}

	got, err := s.Citation(context.Background(), "https://example.org/paper", reference.KindLink)
	require.NoError(t, err)
	assert.Equal(t, "@misc{key,\n  title = {T},\n}\n", got)
	assert.Contains(t, ed.opened, "% Source: https://example.org/paper")
}

func TestManual_Empty(t *testing.T) {
	s := &Service{Editor: &fakeEditor{}}
	_, err := s.Manual(context.Background(), "x", bib.Hints{})
	assert.ErrorIs(t, err, ErrEmptyCitation)
}

func TestManual_EditorFailed(t *testing.T) {
	s := &Service{Editor: &fakeEditor{err: editor.ErrFailed}}
	_, err := s.Manual(context.Background(), "x", bib.Hints{})
	assert.ErrorIs(t, err, ErrEditorFailed)
}

func TestCitation_HintsPrefillTemplate(t *testing.T) {
	ed := &fakeEditor{}
	s := &Service{
		Editor:    ed,
		FileHints: fakeHints{hints: bib.Hints{Title: "Local Title", Year: "2021"}},
		LinkHints: fakeHints{err: errors.New("offline")},
	}

	got, err := s.Citation(context.Background(), "/tmp/paper.pdf", reference.KindLocalFile)
	require.NoError(t, err)
	assert.Contains(t, got, "title = {Local Title}")

	_, err = s.Citation(context.Background(), "https://example.org", reference.KindLink)
	assert.ErrorIs(t, err, ErrEmptyCitation, "failing hints must not block manual entry")
	assert.False(t, strings.Contains(ed.opened, "Prefilled"))
}
