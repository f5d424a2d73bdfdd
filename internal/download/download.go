// Package download fetches a paper's PDF and source files into its directory.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/carlmjohnson/requests"
	"github.com/charmbracelet/log"

	"github.com/matsen/citerius/internal/arxiv"
	"github.com/matsen/citerius/internal/reference"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	YesNo(question string, def bool) (bool, error)
}

// Target is what to download and where to put it.
type Target struct {
	Kind      reference.Kind
	Source    string // arXiv id, URL or local path
	Label     string
	PDFPath   string // <dir>/<label>.pdf
	SourceDir string // <dir>/src
}

// Options are the user's answers to "download the paper / the source?".
type Options struct {
	PDF    bool
	Source bool

	// SkipExisting keeps existing files without asking.
	SkipExisting bool
}

// Result reports what was written.
type Result struct {
	PDF    bool
	Source bool
}

// Downloader fetches files for a Target.
type Downloader struct {
	Arxiv     *arxiv.Client
	HTTP      *http.Client
	UserAgent string
	Confirm   Confirmer

	// NoConfirm answers "no" to every overwrite question without asking.
	NoConfirm bool

	Logger *log.Logger
}

// Download runs the download for t. Existing files are only replaced after
// the user explicitly agrees.
func (d *Downloader) Download(ctx context.Context, t Target, opts Options) (Result, error) {
	var res Result
	logger := d.logger().WithPrefix(t.Label)

	if opts.PDF {
		ok, err := d.mayWrite(t.PDFPath, opts.SkipExisting, logger)
		if err != nil {
			return res, err
		}
		if ok {
			if err := d.fetchPDF(ctx, t, logger); err != nil {
				return res, err
			}
			res.PDF = true
		}
	}

	if opts.Source {
		if t.Kind != reference.KindArxiv {
			logger.Debug("source files are only available from arXiv", "kind", t.Kind)
			return res, nil
		}
		ok, err := d.mayWrite(t.SourceDir, opts.SkipExisting, logger)
		if err != nil {
			return res, err
		}
		if ok {
			if err := d.fetchSource(ctx, t, logger); err != nil {
				return res, err
			}
			res.Source = true
		}
	}
	return res, nil
}

func (d *Downloader) fetchPDF(ctx context.Context, t Target, logger *log.Logger) error {
	switch t.Kind {
	case reference.KindArxiv:
		logger.Info("downloading PDF from arXiv", "id", t.Source)
		return saveTo(ctx, d.Arxiv.PDFRequest(t.Source), t.PDFPath)
	case reference.KindLink:
		logger.Info("downloading PDF", "url", t.Source)
		return saveTo(ctx, d.linkRequest(t.Source), t.PDFPath)
	case reference.KindLocalFile:
		if sameFile(t.Source, t.PDFPath) {
			return nil
		}
		logger.Info("copying PDF", "from", t.Source)
		return copyFile(t.Source, t.PDFPath)
	default:
		return fmt.Errorf("unsupported target kind %v", t.Kind)
	}
}

// fetchSource downloads the e-print next to the source directory, unpacks
// it and deletes the archive.
func (d *Downloader) fetchSource(ctx context.Context, t Target, logger *log.Logger) error {
	logger.Info("downloading source files from arXiv", "id", t.Source)
	archive := filepath.Join(filepath.Dir(t.SourceDir), t.Label+".tar.gz")
	if err := saveTo(ctx, d.Arxiv.SourceRequest(t.Source), archive); err != nil {
		return err
	}
	defer os.Remove(archive)

	if err := os.RemoveAll(t.SourceDir); err != nil {
		return fmt.Errorf("clearing source directory: %w", err)
	}
	logger.Debug("unpacking source archive", "dir", t.SourceDir)
	return arxiv.ExtractSource(archive, t.SourceDir)
}

func (d *Downloader) linkRequest(url string) *requests.Builder {
	b := requests.URL(url).CheckStatus(http.StatusOK)
	if d.HTTP != nil {
		b = b.Client(d.HTTP)
	}
	if d.UserAgent != "" {
		b = b.UserAgent(d.UserAgent)
	}
	return b
}

// mayWrite applies the overwrite policy to path: absent paths are written,
// existing ones only after an explicit yes.
func (d *Downloader) mayWrite(path string, skipExisting bool, logger *log.Logger) (bool, error) {
	if !exists(path) {
		return true, nil
	}
	if skipExisting || d.NoConfirm || d.Confirm == nil {
		logger.Warn("already exists, not overwriting", "path", path)
		return false, nil
	}
	ok, err := d.Confirm.YesNo(fmt.Sprintf("%s already exists. Overwrite?", path), false)
	if err != nil {
		return false, err
	}
	if !ok {
		logger.Warn("keeping existing file", "path", path)
	}
	return ok, nil
}

func (d *Downloader) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.New(io.Discard)
}

// saveTo fetches b into dest through a temporary file in the same directory.
func saveTo(ctx context.Context, b *requests.Builder, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	err = b.ToWriter(tmp).Fetch(ctx)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("downloading %s: %w", filepath.Base(dest), err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving %s: %w", filepath.Base(dest), err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".copy-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	_, err = io.Copy(tmp, in)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), dest)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("copying %s: %w", filepath.Base(src), err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

func sameFile(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
