package git

import (
	"path/filepath"
	"sort"

	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/reference"
	"github.com/matsen/citerius/internal/storage"
)

// Diff lists papers added to and removed from the index between two states.
type Diff struct {
	Added   []reference.Paper `json:"added"`
	Removed []reference.Paper `json:"removed"`
}

// DiffSince compares the working-tree papers.csv in dir to a commit.
func DiffSince(dir, commitRef string) (*Diff, error) {
	oldPapers, err := PapersAt(dir, commitRef)
	if err != nil {
		return nil, err
	}

	current, err := storage.ReadAll(filepath.Join(dir, config.PapersFile))
	if err != nil {
		return nil, err
	}

	return diffPapers(oldPapers, current), nil
}

// diffPapers returns papers in current but not old (added), and papers in
// old but not current (removed), each sorted by label.
func diffPapers(oldPapers, current []reference.Paper) *Diff {
	oldSet := make(map[string]bool, len(oldPapers))
	for _, p := range oldPapers {
		oldSet[p.Label] = true
	}
	currentSet := make(map[string]bool, len(current))
	for _, p := range current {
		currentSet[p.Label] = true
	}

	d := &Diff{}
	for _, p := range current {
		if !oldSet[p.Label] {
			d.Added = append(d.Added, p)
		}
	}
	for _, p := range oldPapers {
		if !currentSet[p.Label] {
			d.Removed = append(d.Removed, p)
		}
	}
	SortByLabel(d.Added)
	SortByLabel(d.Removed)
	return d
}

// SortByLabel sorts papers by label for deterministic output.
func SortByLabel(papers []reference.Paper) {
	sort.Slice(papers, func(i, j int) bool {
		return papers[i].Label < papers[j].Label
	})
}
