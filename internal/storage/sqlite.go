package storage

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/matsen/citerius/internal/reference"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite search cache. papers.csv is the source of truth; the
// cache is rebuilt from it whenever the file changes.
type DB struct {
	db *sql.DB
}

const selectPaperFields = `label, title, authors, arxiv_id, year, download_pdf, download_link, download_src`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			label TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			arxiv_id TEXT,
			year TEXT,
			download_pdf INTEGER NOT NULL,
			download_link TEXT,
			download_src INTEGER NOT NULL
		);

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			label,
			title,
			authors,
			year
		);

		-- Fingerprint of the papers.csv the cache was built from
		CREATE TABLE IF NOT EXISTS source_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			fingerprint TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Fingerprint identifies a version of papers.csv by size and modification time.
func Fingerprint(csvPath string) (string, error) {
	info, err := os.Stat(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "missing", nil
		}
		return "", err
	}
	return strconv.FormatInt(info.Size(), 10) + ":" + strconv.FormatInt(info.ModTime().UnixNano(), 10), nil
}

// IsStale reports whether the cache was built from a different papers.csv.
func (d *DB) IsStale(csvPath string) (bool, error) {
	current, err := Fingerprint(csvPath)
	if err != nil {
		return false, fmt.Errorf("checking papers file: %w", err)
	}

	var stored string
	err = d.db.QueryRow("SELECT fingerprint FROM source_state WHERE id = 1").Scan(&stored)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading cache state: %w", err)
	}
	return stored != current, nil
}

// RebuildFromCSV clears the database and rebuilds it from papers.csv.
func (d *DB) RebuildFromCSV(csvPath string) (int, error) {
	papers, err := ReadAll(csvPath)
	if err != nil {
		return 0, fmt.Errorf("reading papers: %w", err)
	}
	fingerprint, err := Fingerprint(csvPath)
	if err != nil {
		return 0, fmt.Errorf("checking papers file: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM papers", "DELETE FROM papers_fts"} {
		if _, err := tx.Exec(stmt); err != nil {
			return 0, fmt.Errorf("clearing cache: %w", err)
		}
	}

	papersStmt, err := tx.Prepare(`INSERT OR REPLACE INTO papers (` + selectPaperFields + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer papersStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO papers_fts (label, title, authors, year) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, p := range papers {
		_, err := papersStmt.Exec(p.Label, p.Title, p.Authors, nullableMissing(p.ArxivID), p.Year,
			p.DownloadPDF, nullableMissing(p.DownloadLink), p.DownloadSrc)
		if err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.Label, err)
		}
		if _, err := ftsStmt.Exec(p.Label, p.Title, p.Authors, p.Year); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", p.Label, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO source_state (id, fingerprint) VALUES (1, ?)`, fingerprint); err != nil {
		return 0, fmt.Errorf("recording cache state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(papers), nil
}

// Search performs a full-text search and returns matching papers.
// Queries may be prefixed with "author:" or "title:" to restrict the field.
func (d *DB) Search(query string, limit int) ([]reference.Paper, error) {
	var ftsQuery string
	switch {
	case strings.HasPrefix(query, "author:"):
		ftsQuery = "authors:" + prepareFTSQuery(strings.TrimPrefix(query, "author:"))
	case strings.HasPrefix(query, "title:"):
		ftsQuery = "title:" + prepareFTSQuery(strings.TrimPrefix(query, "title:"))
	default:
		ftsQuery = prepareFTSQuery(query)
	}
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+selectPaperFields+`
		FROM papers
		WHERE label IN (SELECT label FROM papers_fts WHERE papers_fts MATCH ?)
		ORDER BY label
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// ListAll returns all papers ordered by label, optionally limited.
func (d *DB) ListAll(limit int) ([]reference.Paper, error) {
	query := `SELECT ` + selectPaperFields + ` FROM papers ORDER BY label`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// Count returns the total number of papers.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	return count, err
}

func scanPapers(rows *sql.Rows) ([]reference.Paper, error) {
	var papers []reference.Paper
	for rows.Next() {
		var p reference.Paper
		var arxivID, link sql.NullString
		if err := rows.Scan(&p.Label, &p.Title, &p.Authors, &arxivID, &p.Year, &p.DownloadPDF, &link, &p.DownloadSrc); err != nil {
			return nil, err
		}
		p.ArxivID = reference.OrMissing(arxivID.String)
		p.DownloadLink = reference.OrMissing(link.String)
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// nullableMissing stores "nan" and empty identifiers as NULL.
func nullableMissing(s string) sql.NullString {
	if s == "" || s == reference.Missing {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// FTS5 uses double quotes for phrase matching
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
