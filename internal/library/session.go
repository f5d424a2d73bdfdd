// Package library runs the operations on a references directory: adding,
// removing and finding papers while keeping papers.csv, bibliography.bib,
// the paper directories and git history consistent.
package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/download"
	"github.com/matsen/citerius/internal/finder"
	"github.com/matsen/citerius/internal/reference"
	"github.com/matsen/citerius/internal/storage"
)

var (
	// ErrLabelNotFound is returned when no paper carries the label.
	ErrLabelNotFound = storage.ErrLabelNotFound

	// ErrLabelExists is returned when a new paper's label is already used.
	ErrLabelExists = errors.New("label already exists")

	// ErrInvalidLabel is returned for labels unusable as a BibTeX key or directory name.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrFileSystemMissing reports a paper directory that was already gone.
	// It is logged, never returned to callers.
	ErrFileSystemMissing = errors.New("paper directory missing")

	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled")
)

// CitationSource returns BibTeX text for a target.
type CitationSource interface {
	Citation(ctx context.Context, target string, kind reference.Kind) (string, error)
}

// Downloader fetches a paper's files.
type Downloader interface {
	Download(ctx context.Context, t download.Target, opts download.Options) (download.Result, error)
}

// Prompter asks the user questions.
type Prompter interface {
	YesNo(question string, def bool) (bool, error)
	Confirm(question string) (bool, error)
	Line(question string) (string, error)
}

// Committer records changes to the tracked files.
type Committer interface {
	Commit(files []string, msg string) error
	Sync(ctx context.Context, out io.Writer) error
}

// Opener shows a PDF to the user.
type Opener interface {
	Open(path string) error
}

// Session holds everything one invocation needs. The paper index is read
// lazily on first use and cached until the session changes it.
type Session struct {
	Config     *config.Config
	Logger     *log.Logger
	Citations  CitationSource
	Downloader Downloader
	Prompt     Prompter
	Finder     finder.Finder
	Git        Committer
	Opener     Opener

	// NoConfirm skips confirmations: removals proceed, overwrites don't.
	NoConfirm bool

	// Out receives messages meant for the user.
	Out io.Writer

	papers []reference.Paper
	loaded bool
}

// Papers returns every paper in the index.
func (s *Session) Papers() ([]reference.Paper, error) {
	if s.loaded {
		return s.papers, nil
	}
	papers, err := storage.ReadAll(s.Config.PapersPath())
	if err != nil {
		return nil, err
	}
	s.papers = papers
	s.loaded = true
	return papers, nil
}

// Paper returns the paper carrying label.
func (s *Session) Paper(label string) (reference.Paper, error) {
	papers, err := s.Papers()
	if err != nil {
		return reference.Paper{}, err
	}
	i, ok := storage.FindByLabel(papers, label)
	if !ok {
		return reference.Paper{}, fmt.Errorf("%w: %s", ErrLabelNotFound, label)
	}
	return papers[i], nil
}

// CheckReferencesDir fails when the configured references directory does not exist.
func (s *Session) CheckReferencesDir() error {
	info, err := os.Stat(s.Config.ReferencesDir)
	if err != nil {
		return fmt.Errorf("references directory %s: %w (run 'citerius init')", s.Config.ReferencesDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("references directory %s is not a directory", s.Config.ReferencesDir)
	}
	return nil
}

func (s *Session) invalidate() {
	s.papers = nil
	s.loaded = false
}

func (s *Session) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.New(io.Discard)
}

func (s *Session) out() io.Writer {
	if s.Out != nil {
		return s.Out
	}
	return io.Discard
}

func (s *Session) say(format string, args ...any) {
	fmt.Fprintf(s.out(), format+"\n", args...)
}
