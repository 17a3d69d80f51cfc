// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset ingests the arXiv Kaggle metadata snapshot into a local
// SQLite store and selects the identifier sample the fetch stages work on.
package dataset

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citegraph/pkg/types"
)

const dbFile = "dataset.db"

// maxLineSize bounds one snapshot line; abstract-bearing entries run long.
const maxLineSize = 4 << 20

// Store manages the snapshot SQLite database under dataDir.
type Store struct {
	db *sql.DB
}

// Open opens or creates the dataset database at DataDir/dataset.db, creating
// the schema if it does not exist.
func Open(cfg types.DatasetConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			categories TEXT,
			update_date TEXT,
			year_updated INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_year_updated ON papers(year_updated)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// snapshotEntry is one line of the Kaggle arXiv metadata snapshot.
type snapshotEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Categories string `json:"categories"`
	UpdateDate string `json:"update_date"`
}

// IngestSummary holds counts from a snapshot ingestion run.
type IngestSummary struct {
	Kept    int
	Skipped int
	Failed  int
}

// Total returns the number of snapshot lines processed.
func (s IngestSummary) Total() int {
	return s.Kept + s.Skipped + s.Failed
}

// Ingest streams snapshot JSON lines from r, keeps papers with at least one
// cs.* category, and upserts them into the store. Lines that do not parse are
// counted and reported but do not abort the run.
func (s *Store) Ingest(ctx context.Context, r io.Reader, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO papers (id, title, categories, update_date, year_updated)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		var entry snapshotEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			fmt.Fprintf(w, "line %d: parse error: %v\n", line, err)
			summary.Failed++
			continue
		}

		categories := csCategories(entry.Categories)
		if len(categories) == 0 {
			summary.Skipped++
			continue
		}

		year, err := updateYear(entry.UpdateDate)
		if err != nil {
			fmt.Fprintf(w, "line %d (%s): %v\n", line, entry.ID, err)
			summary.Failed++
			continue
		}

		categoriesJSON, _ := json.Marshal(categories)
		if _, err := stmt.ExecContext(ctx, entry.ID, strings.TrimSpace(entry.Title),
			string(categoriesJSON), entry.UpdateDate, year); err != nil {
			return summary, fmt.Errorf("inserting paper %s: %w", entry.ID, err)
		}
		summary.Kept++
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing snapshot: %w", err)
	}

	fmt.Fprintf(w, "\nkept: %d, skipped: %d, failed: %d (total: %d)\n",
		summary.Kept, summary.Skipped, summary.Failed, summary.Total())
	return summary, nil
}

// csCategories returns the full category list of an entry if any category is
// a computer-science one, or nil when the entry is out of scope.
func csCategories(raw string) []string {
	categories := strings.Fields(raw)
	for _, c := range categories {
		if strings.HasPrefix(c, "cs.") {
			return categories
		}
	}
	return nil
}

// updateYear extracts the year from a snapshot update_date (e.g. "2019-10-21").
func updateYear(s string) (int, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("invalid update_date %q: %w", s, err)
	}
	return t.Year(), nil
}

// Count returns the number of papers in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// Select returns the arXiv ids of papers with StartYear <= year_updated <
// EndYear, shuffled deterministically with SampleSeed and truncated to
// SampleSize (0 keeps all). The same config always produces the same ordered
// list, so interrupted fetch runs resume with identical batch boundaries.
func (s *Store) Select(ctx context.Context, cfg types.PapersConfig) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM papers WHERE year_updated >= ? AND year_updated < ? ORDER BY id`,
		cfg.StartYear, cfg.EndYear)
	if err != nil {
		return nil, fmt.Errorf("selecting papers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning paper id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating papers: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.SampleSeed))
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	if cfg.SampleSize > 0 && len(ids) > cfg.SampleSize {
		ids = ids[:cfg.SampleSize]
	}
	return ids, nil
}
