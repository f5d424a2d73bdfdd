// Package citation obtains the BibTeX citation for a paper: from arXiv for
// arXiv ids, and typed by the user in an editor for everything else.
package citation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matsen/citerius/internal/arxiv"
	"github.com/matsen/citerius/internal/bib"
	"github.com/matsen/citerius/internal/editor"
	"github.com/matsen/citerius/internal/reference"
)

var (
	// ErrCitationNotFound is returned when arXiv has no citation for an id.
	ErrCitationNotFound = errors.New("citation not found")

	// ErrEmptyCitation is returned when the user saved an empty citation.
	ErrEmptyCitation = errors.New("empty citation")

	// ErrEditorFailed is returned when the editor exits with an error.
	ErrEditorFailed = editor.ErrFailed
)

// Editor opens text for the user to edit.
type Editor interface {
	Edit(ctx context.Context, initial string) (string, error)
}

// HintSource gathers partial metadata used to prefill the editor template.
type HintSource interface {
	Hints(ctx context.Context, target string) (bib.Hints, error)
}

// Service fetches citations.
type Service struct {
	Arxiv  *arxiv.Client
	Editor Editor

	// LinkHints and FileHints are optional; errors from them are logged and ignored.
	LinkHints HintSource
	FileHints HintSource

	Logger *log.Logger
}

// Citation returns the BibTeX text for target, classified as kind.
func (s *Service) Citation(ctx context.Context, target string, kind reference.Kind) (string, error) {
	switch kind {
	case reference.KindArxiv:
		return s.FromArxiv(ctx, target)
	case reference.KindLink:
		return s.Manual(ctx, target, s.hints(ctx, s.LinkHints, target))
	case reference.KindLocalFile:
		return s.Manual(ctx, target, s.hints(ctx, s.FileHints, target))
	default:
		return "", fmt.Errorf("unsupported target kind %v", kind)
	}
}

// FromArxiv asks arXiv for the citation of id.
func (s *Service) FromArxiv(ctx context.Context, id string) (string, error) {
	body, err := s.Arxiv.FetchBibTeX(ctx, id)
	if err != nil {
		if arxiv.IsNotFound(err) {
			return "", fmt.Errorf("%w: %s", ErrCitationNotFound, id)
		}
		return "", err
	}
	if !strings.Contains(body, "@") {
		return "", fmt.Errorf("%w: %s", ErrCitationNotFound, id)
	}
	return strings.TrimSpace(body) + "\n", nil
}

// Manual opens the editor on the citation template and returns what the
// user wrote, comments and blank lines removed.
func (s *Service) Manual(ctx context.Context, source string, hints bib.Hints) (string, error) {
	edited, err := s.Editor.Edit(ctx, bib.Template(source, hints))
	if err != nil {
		return "", err
	}
	text := bib.StripComments(edited)
	if text == "" {
		return "", ErrEmptyCitation
	}
	return text, nil
}

func (s *Service) hints(ctx context.Context, src HintSource, target string) bib.Hints {
	if src == nil {
		return bib.Hints{}
	}
	h, err := src.Hints(ctx, target)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Debug("no metadata hints", "target", target, "err", err)
		}
		return bib.Hints{}
	}
	return h
}
