package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matsen/citerius/internal/reference"
)

// setupTestDB creates a papers.csv with test data and a cache built from it.
func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "papers.csv")

	papers := []reference.Paper{
		{Title: "Machine Learning in Biology", Authors: "Smith J and Doe J", ArxivID: "2401.00001", Year: "2024", Label: "SmithMachine2024", DownloadPDF: true},
		{Title: "Deep Learning for Protein Structure", Authors: "Jones A", ArxivID: reference.Missing, DownloadLink: "https://example.org/p.pdf", Year: "2025", Label: "JonesDeep2025", DownloadPDF: true},
		{Title: "Statistical Methods in Genomics", Authors: "Brown B and White C", Year: "2023", Label: "BrownStatistical2023"},
	}
	for _, p := range papers {
		if err := Append(csvPath, p); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	db, err := OpenDB(filepath.Join(tmpDir, "cache.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RebuildFromCSV(csvPath); err != nil {
		t.Fatalf("RebuildFromCSV() error = %v", err)
	}
	return db, csvPath
}

func TestRebuildAndCount(t *testing.T) {
	db, _ := setupTestDB(t)

	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestSearch(t *testing.T) {
	db, _ := setupTestDB(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"learning", []string{"JonesDeep2025", "SmithMachine2024"}},
		{"author:White", []string{"BrownStatistical2023"}},
		{"title:protein", []string{"JonesDeep2025"}},
		{"nothingmatches", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			papers, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(papers) != len(tt.want) {
				t.Fatalf("Search(%q) returned %d papers, want %d", tt.query, len(papers), len(tt.want))
			}
			for i, p := range papers {
				if p.Label != tt.want[i] {
					t.Errorf("result %d = %s, want %s", i, p.Label, tt.want[i])
				}
			}
		})
	}
}

func TestListAll_Limit(t *testing.T) {
	db, _ := setupTestDB(t)

	all, err := db.ListAll(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Label != "BrownStatistical2023" {
		t.Errorf("ListAll(0) = %+v", all)
	}
	if all[0].ArxivID != reference.Missing || all[0].DownloadLink != reference.Missing {
		t.Errorf("missing identifiers should read back as nan: %+v", all[0])
	}

	limited, err := db.ListAll(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("ListAll(2) returned %d", len(limited))
	}
}

func TestIsStale(t *testing.T) {
	db, csvPath := setupTestDB(t)

	stale, err := db.IsStale(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if stale {
		t.Error("fresh cache reported stale")
	}

	if err := Append(csvPath, reference.Paper{Title: "New", Label: "New2026", Year: "2026"}); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(csvPath, future, future); err != nil {
		t.Fatal(err)
	}

	stale, err = db.IsStale(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("cache not stale after papers.csv changed")
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := map[string]string{
		"  simple ":   "simple",
		"1706.03762":  `"1706.03762"`,
		`say "hello"`: `"say ""hello"""`,
		"":            "",
	}
	for in, want := range tests {
		if got := prepareFTSQuery(in); got != want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", in, got, want)
		}
	}
}
