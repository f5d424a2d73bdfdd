package library

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matsen/citerius/internal/download"
	"github.com/matsen/citerius/internal/finder"
	"github.com/matsen/citerius/internal/reference"
	"github.com/matsen/citerius/internal/storage"
)

// FuzzyFindLabel lets the user pick a paper and returns its label.
func (s *Session) FuzzyFindLabel(ctx context.Context) (string, error) {
	papers, err := s.Papers()
	if err != nil {
		return "", err
	}
	if len(papers) == 0 {
		return "", fmt.Errorf("%w: the index is empty", finder.ErrNoSelection)
	}

	lines := make([]string, len(papers))
	for i, p := range papers {
		lines[i] = p.SearchLine()
	}
	i, err := s.Finder.Find(ctx, "paper", lines)
	if err != nil {
		return "", err
	}
	return papers[i].Label, nil
}

// Read opens the PDF of the paper carrying label.
func (s *Session) Read(label string) error {
	if _, err := s.Paper(label); err != nil {
		return err
	}
	return s.Opener.Open(s.Config.PDFPath(label))
}

// FetchMissing downloads the PDF of every paper that should have one but
// doesn't. The index and bibliography are not touched and nothing is
// committed. Returns how many PDFs were fetched.
func (s *Session) FetchMissing(ctx context.Context) (int, error) {
	papers, err := s.Papers()
	if err != nil {
		return 0, err
	}

	fetched, failed := 0, 0
	for _, p := range papers {
		if err := ctx.Err(); err != nil {
			return fetched, err
		}
		if !p.DownloadPDF {
			continue
		}
		pdfPath := s.Config.PDFPath(p.Label)
		if _, err := os.Stat(pdfPath); err == nil {
			continue
		}

		var source string
		switch p.Kind() {
		case reference.KindArxiv:
			source = p.ArxivID
		case reference.KindLink:
			source = p.DownloadLink
		default:
			s.logger().Warn("PDF missing and no source to fetch it from", "label", p.Label)
			failed++
			continue
		}

		_, err := s.Downloader.Download(ctx, download.Target{
			Kind:      p.Kind(),
			Source:    source,
			Label:     p.Label,
			PDFPath:   pdfPath,
			SourceDir: s.Config.SourcePath(p.Label),
		}, download.Options{PDF: true, SkipExisting: true})
		if err != nil {
			s.logger().Warn("download failed", "label", p.Label, "err", err)
			failed++
			continue
		}
		fetched++
	}

	s.say("Fetched %d missing PDFs, failed %d", fetched, failed)
	return fetched, nil
}

// Sync pulls and pushes the references repository.
func (s *Session) Sync(ctx context.Context) error {
	if s.Git == nil {
		return errors.New("git is not configured")
	}
	return s.Git.Sync(ctx, s.out())
}

// Search queries the local search cache, rebuilding it first when
// papers.csv changed since the last build.
func (s *Session) Search(query string, limit int) ([]reference.Paper, error) {
	db, err := s.openCache()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Search(query, limit)
}

// List returns papers ordered by label from the search cache. A limit of
// zero lists everything.
func (s *Session) List(limit int) ([]reference.Paper, int, error) {
	db, err := s.openCache()
	if err != nil {
		return nil, 0, err
	}
	defer db.Close()
	papers, err := db.ListAll(limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := db.Count()
	if err != nil {
		return nil, 0, err
	}
	return papers, total, nil
}

// RebuildCache rebuilds the search cache from papers.csv.
func (s *Session) RebuildCache() (int, error) {
	db, err := s.openCache()
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return db.RebuildFromCSV(s.Config.PapersPath())
}

func (s *Session) openCache() (*storage.DB, error) {
	if err := os.MkdirAll(s.Config.StatePath(), 0755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	db, err := storage.OpenDB(s.Config.DBPath())
	if err != nil {
		return nil, err
	}
	stale, err := db.IsStale(s.Config.PapersPath())
	if err != nil {
		db.Close()
		return nil, err
	}
	if stale {
		n, err := db.RebuildFromCSV(s.Config.PapersPath())
		if err != nil {
			db.Close()
			return nil, err
		}
		s.logger().Debug("rebuilt search cache", "papers", n)
	}
	return db, nil
}
