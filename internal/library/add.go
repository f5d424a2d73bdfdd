package library

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/citerius/internal/bib"
	"github.com/matsen/citerius/internal/download"
	"github.com/matsen/citerius/internal/ident"
	"github.com/matsen/citerius/internal/reference"
	"github.com/matsen/citerius/internal/storage"
)

// AddOptions control how much Add asks the user.
type AddOptions struct {
	// Label overrides the label; empty means ask (interactive) or use the default.
	Label string

	// Download preset answers to the download questions; nil means ask.
	Download *download.Options

	// NoCommit leaves the change uncommitted, for batching.
	NoCommit bool
}

// Add fetches the citation for target, downloads its files and records the
// paper in papers.csv and bibliography.bib.
func (s *Session) Add(ctx context.Context, target string, kind reference.Kind, opts AddOptions) (*reference.Paper, error) {
	if err := s.CheckReferencesDir(); err != nil {
		return nil, err
	}
	logger := s.logger().With("kind", kind)
	logger.Info("fetching citation", "target", target)

	citation, err := s.Citations.Citation(ctx, target, kind)
	if err != nil {
		return nil, err
	}
	entry, err := bib.Parse(citation)
	if err != nil {
		return nil, err
	}

	label, err := s.chooseLabel(entry, opts.Label)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(label); err != nil {
		return nil, err
	}

	_, key, err := bib.KeyOf(citation)
	if err != nil {
		return nil, err
	}
	relabeled, err := bib.Relabel(citation, key, label)
	if err != nil {
		return nil, err
	}

	dlOpts, err := s.downloadOptions(kind, opts.Download)
	if err != nil {
		return nil, err
	}

	dir := s.Config.PaperDir(label)
	created, err := s.ensureDir(dir, label)
	if err != nil {
		return nil, err
	}

	if dlOpts.PDF || dlOpts.Source {
		_, err := s.Downloader.Download(ctx, download.Target{
			Kind:      kind,
			Source:    target,
			Label:     label,
			PDFPath:   s.Config.PDFPath(label),
			SourceDir: s.Config.SourcePath(label),
		}, dlOpts)
		if err != nil {
			if created {
				os.RemoveAll(dir)
			}
			return nil, fmt.Errorf("downloading %s: %w", label, err)
		}
	}

	paper := entry.Paper(label)
	switch kind {
	case reference.KindArxiv:
		paper.ArxivID = target
	case reference.KindLink:
		paper.DownloadLink = target
	}
	paper.DownloadPDF = dlOpts.PDF
	paper.DownloadSrc = dlOpts.Source

	if err := s.record(paper, relabeled); err != nil {
		return nil, err
	}
	s.logger().Info("added paper", "label", label)

	if !opts.NoCommit {
		if err := s.commit(verbAdded, []string{label}); err != nil {
			return &paper, err
		}
	}
	return &paper, nil
}

// chooseLabel returns the preset label, the user's answer or the default.
func (s *Session) chooseLabel(entry *bib.Entry, preset string) (string, error) {
	label := strings.TrimSpace(preset)
	def := entry.DefaultLabel()
	if label == "" && s.Prompt != nil {
		answer, err := s.Prompt.Line(fmt.Sprintf("What would be the paper's label? (leave empty for default: %s)", def))
		if err != nil {
			return "", err
		}
		label = answer
	}
	if label == "" {
		label = def
	}
	if !bib.ValidLabel(label) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return label, nil
}

// checkUnique rejects labels already in the index or the bibliography.
func (s *Session) checkUnique(label string) error {
	papers, err := s.Papers()
	if err != nil {
		return err
	}
	if _, ok := storage.FindByLabel(papers, label); ok {
		return fmt.Errorf("%w: %s is in %s", ErrLabelExists, label, s.Config.PapersPath())
	}
	idx, err := bib.ReadIndex(s.Config.BibliographyPath())
	if err != nil {
		return fmt.Errorf("reading bibliography: %w", err)
	}
	if idx.Has(label) {
		return fmt.Errorf("%w: %s is in %s", ErrLabelExists, label, s.Config.BibliographyPath())
	}
	return nil
}

// downloadOptions returns the preset answers, or asks. Source files are
// only offered for arXiv papers.
func (s *Session) downloadOptions(kind reference.Kind, preset *download.Options) (download.Options, error) {
	if preset != nil {
		opts := *preset
		if kind != reference.KindArxiv {
			opts.Source = false
		}
		return opts, nil
	}
	if s.Prompt == nil {
		return download.Options{PDF: true}, nil
	}

	var opts download.Options
	var err error
	if opts.PDF, err = s.Prompt.YesNo("Would you like to download this paper?", true); err != nil {
		return opts, err
	}
	if kind == reference.KindArxiv {
		if opts.Source, err = s.Prompt.YesNo("Would you like to download the source files?", false); err != nil {
			return opts, err
		}
	}
	if !opts.PDF && !opts.Source {
		s.say("No download will happen.")
	}
	return opts, nil
}

// ensureDir creates the paper directory. An existing directory with no
// index entry is an orphan from an earlier failure and is reused.
func (s *Session) ensureDir(dir, label string) (bool, error) {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		s.logger().Warn("directory already exists, reusing it", "label", label, "dir", dir)
		return false, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("creating paper directory: %w", err)
	}
	return true, nil
}

// record appends the paper to both files. If the bibliography write fails
// the index row is taken back out.
func (s *Session) record(paper reference.Paper, citation string) error {
	if err := storage.Append(s.Config.PapersPath(), paper); err != nil {
		return err
	}
	s.invalidate()
	if err := bib.Append(s.Config.BibliographyPath(), citation); err != nil {
		if rerr := storage.RemoveByLabel(s.Config.PapersPath(), paper.Label); rerr != nil {
			s.logger().Error("could not roll back index row", "label", paper.Label, "err", rerr)
		}
		return fmt.Errorf("writing bibliography: %w", err)
	}
	return nil
}

// BulkResult summarises an AddBulk run.
type BulkResult struct {
	Added  []string
	Failed map[string]error
}

// AddBulk adds every paper listed in path, one target per line. Blank lines
// and lines starting with '#' are skipped. No questions are asked: the PDF
// is downloaded, the source is not, the default label is used and existing
// files are kept. Links and local PDFs have no citation service, so the
// editor still opens once for each of them. Failures are reported and
// skipped; the successes are committed together.
func (s *Session) AddBulk(ctx context.Context, path string) (*BulkResult, error) {
	targets, err := readTargets(path)
	if err != nil {
		return nil, err
	}

	bulk := *s
	bulk.Prompt = nil
	res := &BulkResult{Failed: make(map[string]error)}
	opts := AddOptions{
		Download: &download.Options{PDF: true, SkipExisting: true},
		NoCommit: true,
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			break
		}
		kind := ident.Classify(target)
		paper, err := bulk.Add(ctx, target, kind, opts)
		if err != nil {
			s.logger().Warn("skipping", "target", target, "err", err)
			res.Failed[target] = err
			continue
		}
		res.Added = append(res.Added, paper.Label)
	}
	s.invalidate()

	s.say("Added %d, failed %d", len(res.Added), len(res.Failed))
	if err := s.commit(verbAdded, res.Added); err != nil {
		return res, err
	}
	return res, ctx.Err()
}

func readTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening paper list: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading paper list: %w", err)
	}
	if len(targets) == 0 {
		return nil, errors.New("paper list is empty")
	}
	return targets, nil
}
