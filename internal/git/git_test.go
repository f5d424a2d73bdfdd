package git

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/reference"
	"github.com/matsen/citerius/internal/storage"
)

// setupRepo creates a git repository with an empty index, skipping when
// git is not installed.
func setupRepo(t *testing.T) *Committer {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return &Committer{Root: dir, Name: "Test User", Email: "test@example.org"}
}

func addPaper(t *testing.T, c *Committer, label string) {
	t.Helper()
	p := reference.Paper{Title: "T " + label, Authors: "Doe J", Year: "2024", Label: label, DownloadPDF: true}
	if err := storage.Append(filepath.Join(c.Root, config.PapersFile), p); err != nil {
		t.Fatal(err)
	}
	if err := c.Commit([]string{config.PapersFile, config.BibliographyFile}, "Added paper with label "+label); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
}

func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := exec.Command("git", append([]string{"-C", dir}, args...)...).Output()
	if err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
	return strings.TrimSpace(string(out))
}

func TestFindRepoRoot_NotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	if _, err := FindRepoRoot(t.TempDir()); !errors.Is(err, ErrNotGitRepo) {
		t.Errorf("FindRepoRoot() error = %v, want ErrNotGitRepo", err)
	}
}

func TestCommit(t *testing.T) {
	c := setupRepo(t)

	// An unrelated file must not be swept into the commit.
	if err := os.WriteFile(filepath.Join(c.Root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	addPaper(t, c, "DoeFirst2024")

	if got := gitOutput(t, c.Root, "log", "-1", "--format=%an <%ae>|%s"); got != "Test User <test@example.org>|Added paper with label DoeFirst2024" {
		t.Errorf("last commit = %q", got)
	}
	if got := gitOutput(t, c.Root, "show", "--name-only", "--format=", "HEAD"); got != config.PapersFile {
		t.Errorf("committed files = %q, want only %s", got, config.PapersFile)
	}
}

func TestCommit_NothingToCommit(t *testing.T) {
	c := setupRepo(t)
	addPaper(t, c, "DoeFirst2024")

	err := c.Commit([]string{config.PapersFile}, "again")
	if !errors.Is(err, ErrNothingToCommit) {
		t.Errorf("Commit() error = %v, want ErrNothingToCommit", err)
	}
}

func TestCommit_NotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	c := &Committer{Root: t.TempDir()}
	if err := c.Commit([]string{config.PapersFile}, "x"); !errors.Is(err, ErrNotGitRepo) {
		t.Errorf("Commit() error = %v, want ErrNotGitRepo", err)
	}
}

func TestDiffSinceAndRecentlyAdded(t *testing.T) {
	c := setupRepo(t)
	addPaper(t, c, "A2024")
	addPaper(t, c, "B2024")
	addPaper(t, c, "C2024")

	if err := storage.RemoveByLabel(filepath.Join(c.Root, config.PapersFile), "A2024"); err != nil {
		t.Fatal(err)
	}

	d, err := DiffSince(c.Root, "HEAD~1")
	if err != nil {
		t.Fatalf("DiffSince() error = %v", err)
	}
	if len(d.Added) != 1 || d.Added[0].Label != "C2024" {
		t.Errorf("Added = %+v", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0].Label != "A2024" {
		t.Errorf("Removed = %+v", d.Removed)
	}

	recent, err := RecentlyAdded(c.Root, 2)
	if err != nil {
		t.Fatalf("RecentlyAdded() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Paper.Label != "C2024" || recent[1].Paper.Label != "B2024" {
		t.Errorf("RecentlyAdded() = %+v", recent)
	}
	if recent[0].CommitMsg != "Added paper with label C2024" {
		t.Errorf("CommitMsg = %q", recent[0].CommitMsg)
	}

	if commits := Commits(c.Root, 0); len(commits) != 3 {
		t.Errorf("Commits() returned %d, want 3", len(commits))
	}
}

func TestValidateCommit(t *testing.T) {
	c := setupRepo(t)
	addPaper(t, c, "A2024")

	if _, err := ValidateCommit(c.Root, "HEAD"); err != nil {
		t.Errorf("ValidateCommit(HEAD) error = %v", err)
	}
	if _, err := ValidateCommit(c.Root, "nonexistent"); !errors.Is(err, ErrCommitNotFound) {
		t.Errorf("ValidateCommit(nonexistent) error = %v", err)
	}
}

func TestParseGitLogOneline(t *testing.T) {
	got := parseGitLogOneline([]byte("abc1234 Added paper with label X\n\ndef5678 Removed papers with labels A, B\n"))
	if len(got) != 2 {
		t.Fatalf("got %d commits", len(got))
	}
	if got[1].SHA != "def5678" || got[1].Message != "Removed papers with labels A, B" {
		t.Errorf("commit = %+v", got[1])
	}
}

func TestShortSHA(t *testing.T) {
	if shortSHA("0123456789abcdef") != "01234567" || shortSHA("abc") != "abc" {
		t.Error("shortSHA truncation changed")
	}
}
