package library

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/git"
)

// Commit message verbs.
const (
	verbAdded   = "Added"
	verbRemoved = "Removed"
)

// CommitMessage describes a change to one or more papers, e.g.
// "Added paper with label X" or "Removed papers with labels A, B".
func CommitMessage(verb string, labels []string) string {
	if len(labels) == 1 {
		return fmt.Sprintf("%s paper with label %s", verb, labels[0])
	}
	return fmt.Sprintf("%s papers with labels %s", verb, strings.Join(labels, ", "))
}

// commit records the tracked files. A missing repository or an empty change
// is logged and otherwise ignored, since the files themselves are already
// written.
func (s *Session) commit(verb string, labels []string) error {
	if s.Git == nil || len(labels) == 0 {
		return nil
	}
	msg := CommitMessage(verb, labels)
	err := s.Git.Commit(config.TrackedFiles(), msg)
	switch {
	case err == nil:
		s.logger().Debug("committed", "message", msg)
		return nil
	case errors.Is(err, git.ErrNotGitRepo):
		s.logger().Warn("references directory is not a git repository; change not committed")
		return nil
	case errors.Is(err, git.ErrNothingToCommit):
		s.logger().Warn("nothing to commit", "message", msg)
		return nil
	default:
		return fmt.Errorf("committing %q: %w", msg, err)
	}
}
