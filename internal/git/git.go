// Package git versions the references directory: commits after every
// change to the index and syncs with the remote.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/reference"
	"github.com/matsen/citerius/internal/storage"
)

// ErrNotGitRepo indicates the directory is not a git repository.
var ErrNotGitRepo = errors.New("not a git repository")

// ErrCommitNotFound indicates the specified commit does not exist.
var ErrCommitNotFound = errors.New("commit not found")

// ErrNothingToCommit indicates the tracked files have no staged change.
var ErrNothingToCommit = errors.New("nothing to commit")

// FindRepoRoot finds the root of the git repository containing the given path.
// Returns ErrNotGitRepo if not in a git repository.
func FindRepoRoot(path string) (string, error) {
	cmd := exec.Command("git", "-C", path, "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", ErrNotGitRepo
	}
	return strings.TrimSpace(string(output)), nil
}

// IsGitRepo checks if the given path is inside a git repository.
func IsGitRepo(path string) bool {
	_, err := FindRepoRoot(path)
	return err == nil
}

// Init creates a repository in dir.
func Init(dir string) error {
	_, err := run(dir, "init", "--quiet")
	return err
}

// ValidateCommit verifies that a commit reference exists.
// Supports SHA, HEAD, HEAD~N, branch names, tags, etc.
// Returns the resolved full SHA or ErrCommitNotFound.
func ValidateCommit(repoRoot, commitRef string) (string, error) {
	cmd := exec.Command("git", "-C", repoRoot, "rev-parse", "--verify", "--quiet", commitRef+"^{commit}")
	output, err := cmd.Output()
	if err != nil {
		return "", ErrCommitNotFound
	}
	return strings.TrimSpace(string(output)), nil
}

// PapersAt reads papers.csv in dir as it was at a commit. A commit where
// the file did not exist yet gives an empty index.
func PapersAt(dir, commitRef string) ([]reference.Paper, error) {
	sha, err := ValidateCommit(dir, commitRef)
	if err != nil {
		return nil, err
	}

	// "./" resolves the path against dir, which need not be the repository root.
	cmd := exec.Command("git", "-C", dir, "show", sha+":./"+config.PapersFile)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s at %s: %w", config.PapersFile, commitRef, err)
	}
	return storage.Parse(output)
}

// Committer records index changes as commits authored by the configured user.
type Committer struct {
	Root  string
	Name  string
	Email string
}

// Commit stages exactly files (relative to Root) and commits them with msg.
// Returns ErrNothingToCommit when none of them changed.
func (c *Committer) Commit(files []string, msg string) error {
	if !IsGitRepo(c.Root) {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, c.Root)
	}

	var present []string
	for _, f := range files {
		if fileExists(filepath.Join(c.Root, f)) || isTracked(c.Root, f) {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return ErrNothingToCommit
	}

	if _, err := run(c.Root, append([]string{"add", "--all", "--"}, present...)...); err != nil {
		return err
	}

	diff := exec.Command("git", append([]string{"-C", c.Root, "diff", "--cached", "--quiet", "--"}, present...)...)
	if err := diff.Run(); err == nil {
		return ErrNothingToCommit
	}

	args := c.identity()
	args = append(args, "commit", "--quiet", "-m", msg, "--")
	args = append(args, present...)
	_, err := run(c.Root, args...)
	return err
}

// identity sets author and committer through -c so commits work without a
// global git identity.
func (c *Committer) identity() []string {
	var args []string
	if c.Name != "" {
		args = append(args, "-c", "user.name="+c.Name)
	}
	if c.Email != "" {
		args = append(args, "-c", "user.email="+c.Email)
	}
	return args
}

// Sync pulls with rebase and then pushes, streaming git's output.
func (c *Committer) Sync(ctx context.Context, out io.Writer) error {
	for _, args := range [][]string{{"pull", "--rebase"}, {"push"}} {
		full := append(c.identity(), args...)
		cmd := exec.CommandContext(ctx, "git", append([]string{"-C", c.Root}, full...)...)
		cmd.Stdout = out
		cmd.Stderr = out
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("git %s: %w", args[0], err)
		}
	}
	return nil
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isTracked(dir, file string) bool {
	_, err := run(dir, "ls-files", "--error-unmatch", "--", file)
	return err == nil
}
