package config

import "path/filepath"

// File and directory names inside the references directory.
const (
	PapersFile       = "papers.csv"
	BibliographyFile = "bibliography.bib"
	SourceDir        = "src"
	StateDir         = ".citerius"
	DBFile           = "cache.db"
)

// PapersPath returns the path to papers.csv.
func (c *Config) PapersPath() string {
	return filepath.Join(c.ReferencesDir, PapersFile)
}

// BibliographyPath returns the path to bibliography.bib.
func (c *Config) BibliographyPath() string {
	return filepath.Join(c.ReferencesDir, BibliographyFile)
}

// PaperDir returns the directory holding a paper's files.
func (c *Config) PaperDir(label string) string {
	return filepath.Join(c.ReferencesDir, label)
}

// PDFPath returns the path of a paper's PDF.
func (c *Config) PDFPath(label string) string {
	return filepath.Join(c.ReferencesDir, label, label+".pdf")
}

// SourcePath returns the directory holding a paper's extracted sources.
func (c *Config) SourcePath(label string) string {
	return filepath.Join(c.ReferencesDir, label, SourceDir)
}

// StatePath returns the directory for local, untracked state.
func (c *Config) StatePath() string {
	return filepath.Join(c.ReferencesDir, StateDir)
}

// DBPath returns the path of the search cache database.
func (c *Config) DBPath() string {
	return filepath.Join(c.ReferencesDir, StateDir, DBFile)
}

// TrackedFiles returns the files committed after every mutation, relative to
// the references directory.
func TrackedFiles() []string {
	return []string{PapersFile, BibliographyFile}
}
