package library

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matsen/citerius/internal/bib"
	"github.com/matsen/citerius/internal/storage"
)

// Remove deletes the paper carrying label: its index row, its bibliography
// entry and its directory. Unless NoConfirm is set the user must answer y.
func (s *Session) Remove(ctx context.Context, label string) error {
	if _, err := s.Paper(label); err != nil {
		return err
	}

	if !s.NoConfirm {
		ok, err := s.Prompt.Confirm(fmt.Sprintf("Are you sure you want to remove the paper %s?", label))
		if err != nil {
			return err
		}
		if !ok {
			s.say("Cancelled.")
			return ErrCancelled
		}
	}

	if err := s.removeOne(label); err != nil {
		return err
	}
	return s.commit(verbRemoved, []string{label})
}

// RemoveAll deletes every paper after a single confirmation, with one commit.
func (s *Session) RemoveAll(ctx context.Context) error {
	papers, err := s.Papers()
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		s.say("No papers to remove.")
		return nil
	}

	if !s.NoConfirm {
		ok, err := s.Prompt.Confirm(fmt.Sprintf("Are you sure you want to remove all %d papers?", len(papers)))
		if err != nil {
			return err
		}
		if !ok {
			s.say("Cancelled.")
			return ErrCancelled
		}
	}

	labels := make([]string, 0, len(papers))
	for _, p := range papers {
		labels = append(labels, p.Label)
	}

	var removed []string
	for _, label := range labels {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := s.removeOne(label); err != nil {
			s.logger().Error("removal failed", "label", label, "err", err)
			if cerr := s.commit(verbRemoved, removed); cerr != nil {
				s.logger().Error("commit failed", "err", cerr)
			}
			return err
		}
		removed = append(removed, label)
	}
	if err := s.commit(verbRemoved, removed); err != nil {
		return err
	}
	return ctx.Err()
}

// removeOne deletes the three traces of a paper. A bibliography entry or
// directory that is already gone is logged and tolerated.
func (s *Session) removeOne(label string) error {
	logger := s.logger().WithPrefix(label)

	if err := storage.RemoveByLabel(s.Config.PapersPath(), label); err != nil {
		return err
	}
	s.invalidate()

	found, err := bib.Remove(s.Config.BibliographyPath(), label)
	if err != nil {
		return fmt.Errorf("removing bibliography entry: %w", err)
	}
	if !found {
		logger.Warn("no bibliography entry to remove")
	}

	if err := s.removeDir(label); err != nil {
		if !errors.Is(err, ErrFileSystemMissing) {
			return err
		}
		logger.Warn("paper directory already gone", "dir", s.Config.PaperDir(label))
	}

	logger.Info("removed paper")
	return nil
}

func (s *Session) removeDir(label string) error {
	dir := s.Config.PaperDir(label)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileSystemMissing, dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing paper directory: %w", err)
	}
	return nil
}
