package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/citerius/internal/config"
	"github.com/matsen/citerius/internal/git"
	"github.com/matsen/citerius/internal/storage"
)

// InitResult lists what Init created.
type InitResult struct {
	Created []string `json:"created"`
	GitInit bool     `json:"git_init"`
}

// Init prepares cfg.ReferencesDir: the directory itself, a header-only
// papers.csv, an empty bibliography.bib, a .gitignore for the local cache
// and a git repository. Existing files are left alone, so running it twice
// is harmless.
func Init(cfg *config.Config) (*InitResult, error) {
	res := &InitResult{}
	dir := cfg.ReferencesDir

	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating references directory: %w", err)
		}
		res.Created = append(res.Created, dir)
	}

	create := func(path string, write func(string) error) error {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		if err := write(path); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
		}
		res.Created = append(res.Created, path)
		return nil
	}

	if err := create(cfg.PapersPath(), storage.WriteHeader); err != nil {
		return nil, err
	}
	if err := create(cfg.BibliographyPath(), func(p string) error {
		return os.WriteFile(p, nil, 0644)
	}); err != nil {
		return nil, err
	}
	if err := create(filepath.Join(dir, ".gitignore"), func(p string) error {
		return os.WriteFile(p, []byte(config.StateDir+"/\n"), 0644)
	}); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filepath.Join(dir, ".git")); errors.Is(err, os.ErrNotExist) {
		if err := git.Init(dir); err != nil {
			return nil, err
		}
		res.GitInit = true
	}
	return res, nil
}
