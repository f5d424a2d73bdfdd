package git

import (
	"bufio"
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/reference"
)

// CommitInfo represents information about a git commit.
type CommitInfo struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// RecentPaper is a paper together with the commit that added it.
type RecentPaper struct {
	Paper     reference.Paper `json:"paper"`
	CommitSHA string          `json:"commit"`
	CommitMsg string          `json:"message"`
}

// Commits returns up to n commits touching papers.csv in dir, newest first.
// n <= 0 means all of them.
func Commits(dir string, n int) []CommitInfo {
	args := []string{"-C", dir, "log", "--oneline"}
	if n > 0 {
		args = append(args, "-n", strconv.Itoa(n))
	}
	args = append(args, "--", config.PapersFile)
	output, err := exec.Command("git", args...).Output()
	if err != nil {
		return nil // no commits yet, or not a repository
	}
	return parseGitLogOneline(output)
}

// RecentlyAdded returns the n papers most recently added to the index,
// walking commit history newest first.
func RecentlyAdded(dir string, n int) ([]RecentPaper, error) {
	commits := Commits(dir, 0)
	var result []RecentPaper
	seen := make(map[string]bool)

	for i, commit := range commits {
		atCommit, err := PapersAt(dir, commit.SHA)
		if err != nil {
			continue
		}

		var atParent []reference.Paper
		if i+1 < len(commits) {
			atParent, _ = PapersAt(dir, commits[i+1].SHA)
		}
		parent := make(map[string]bool, len(atParent))
		for _, p := range atParent {
			parent[p.Label] = true
		}

		for _, p := range atCommit {
			if seen[p.Label] || parent[p.Label] {
				continue
			}
			seen[p.Label] = true
			result = append(result, RecentPaper{
				Paper:     p,
				CommitSHA: shortSHA(commit.SHA),
				CommitMsg: commit.Message,
			})
			if len(result) >= n {
				return result, nil
			}
		}
	}
	return result, nil
}

// shortSHA returns a short version of a SHA (up to 8 chars).
func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

// parseGitLogOneline parses git log --oneline output.
func parseGitLogOneline(data []byte) []CommitInfo {
	var commits []CommitInfo
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		sha, msg, _ := strings.Cut(line, " ")
		commits = append(commits, CommitInfo{SHA: sha, Message: msg})
	}
	return commits
}
